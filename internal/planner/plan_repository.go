package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// StoredPlan is a persisted meal plan row.
type StoredPlan struct {
	ID        int64
	UserID    string
	PlanData  []byte // Raw JSON of the meal plan
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for meal plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a new meal plan for a user and returns its row id.
func (r *PlanRepository) Save(ctx context.Context, userID string, plan *MealPlan) (int64, error) {
	planData, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, plan_data, created_at) VALUES (?, ?, ?)`,
		userID, planData, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read meal plan id: %w", err)
	}
	return id, nil
}

// GetLatest retrieves the most recent meal plan for a user, or nil when the
// user has no plan yet.
func (r *PlanRepository) GetLatest(ctx context.Context, userID string) (*MealPlan, error) {
	var stored StoredPlan
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan_data, created_at FROM meal_plans
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID,
	).Scan(&stored.ID, &stored.UserID, &stored.PlanData, &stored.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest meal plan for user %s: %w", userID, err)
	}

	var plan MealPlan
	if err := json.Unmarshal(stored.PlanData, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan %d: %w", stored.ID, err)
	}
	plan.ID = stored.ID
	return &plan, nil
}

// ListRecentByUserID retrieves the N most recent meal plans for a given user.
func (r *PlanRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, plan_data, created_at FROM meal_plans
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.PlanData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal plan rows: %w", err)
	}
	return plans, nil
}
