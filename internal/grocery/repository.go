package grocery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ListStore is the authoritative persisted representation of the current
// grocery list for a meal plan. Every mutation returns the resulting
// canonical list so the caller can reconcile local state without a second
// round trip.
type ListStore interface {
	Get(ctx context.Context, planID string) (*GroceryList, error)
	Replace(ctx context.Context, planID string, list *GroceryList) (*GroceryList, error)
	UpsertItem(ctx context.Context, planID string, item GroceryItem) (*GroceryList, error)
	DeleteItem(ctx context.Context, planID string, itemID string) (*GroceryList, error)
}

// Repository persists grocery list documents to SQLite, one JSON document per
// meal plan.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new grocery list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Get retrieves the current list for a meal plan. A plan without a persisted
// list yields an empty list, since the list only comes into existence on the
// first build.
func (r *Repository) Get(ctx context.Context, planID string) (*GroceryList, error) {
	var doc string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM grocery_lists WHERE plan_id = ?`, planID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return &GroceryList{ID: planID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grocery list for plan %s: %w", planID, err)
	}
	return decodeList(planID, doc)
}

// Replace overwrites the entire list document for a meal plan.
func (r *Repository) Replace(ctx context.Context, planID string, list *GroceryList) (*GroceryList, error) {
	canonical := list.Clone()
	canonical.ID = planID

	doc, err := json.Marshal(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grocery list: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO grocery_lists (plan_id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(plan_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		planID, string(doc), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to replace grocery list for plan %s: %w", planID, err)
	}
	return canonical, nil
}

// UpsertItem inserts or updates a single item inside the persisted document.
// The item's Department decides its section; an existing item is moved when
// its department changed. The whole read-modify-write runs in a transaction.
func (r *Repository) UpsertItem(ctx context.Context, planID string, item GroceryItem) (*GroceryList, error) {
	return r.mutate(ctx, planID, func(list *GroceryList) {
		list.upsertItem(item)
	})
}

// DeleteItem removes a single item from the persisted document. Deleting an
// unknown id is a no-op, not an error.
func (r *Repository) DeleteItem(ctx context.Context, planID string, itemID string) (*GroceryList, error) {
	return r.mutate(ctx, planID, func(list *GroceryList) {
		list.removeItem(itemID)
	})
}

// mutate loads the document, applies fn, and writes the result back inside a
// single transaction.
func (r *Repository) mutate(ctx context.Context, planID string, fn func(*GroceryList)) (*GroceryList, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	list := &GroceryList{ID: planID}
	var doc string
	err = tx.QueryRowContext(ctx,
		`SELECT document FROM grocery_lists WHERE plan_id = ?`, planID,
	).Scan(&doc)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load grocery list for plan %s: %w", planID, err)
	}
	if err == nil {
		list, err = decodeList(planID, doc)
		if err != nil {
			return nil, err
		}
	}

	fn(list)

	out, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grocery list: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO grocery_lists (plan_id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(plan_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		planID, string(out), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to write grocery list for plan %s: %w", planID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit grocery list update: %w", err)
	}
	return list, nil
}

func decodeList(planID, doc string) (*GroceryList, error) {
	var list GroceryList
	if err := json.Unmarshal([]byte(doc), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery list for plan %s: %w", planID, err)
	}
	list.ID = planID
	list.normalizeDepartments()
	return &list, nil
}
