package grocery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"grocery-planner/internal/planner"
)

// Engine applies user commands to a grocery list, keeping a local optimistic
// view in step with the authoritative ListStore.
//
// Commands against the same list are serialized: each one runs to completion,
// including its persistence round trip, before the next is applied. Distinct
// lists are independent and may be mutated concurrently. The optimistic local
// update is applied before the store call so reads reflect intent
// immediately; it is rolled back if the store ultimately reports failure.
// Commands are not cancellable mid-flight: each either commits or rolls back.
type Engine struct {
	store   ListStore
	timeout time.Duration

	mu    sync.Mutex // guards lists
	lists map[string]*listState
}

// listState is the serialized owner of one list's local view.
type listState struct {
	mu      sync.Mutex
	current *GroceryList
	loaded  bool
}

// NewEngine creates an engine over the given store. storeTimeout bounds every
// store round trip; on timeout the previous local view is retained
// (stale-but-present) rather than blocking indefinitely.
func NewEngine(store ListStore, storeTimeout time.Duration) *Engine {
	if storeTimeout <= 0 {
		storeTimeout = 10 * time.Second
	}
	return &Engine{
		store:   store,
		timeout: storeTimeout,
		lists:   make(map[string]*listState),
	}
}

func (e *Engine) state(planID string) *listState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.lists[planID]
	if !ok {
		st = &listState{}
		e.lists[planID] = st
	}
	return st
}

// acquire locks the list's state and lazily hydrates it from the store.
// The caller must unlock st.mu.
func (e *Engine) acquire(ctx context.Context, planID string) (*listState, error) {
	st := e.state(planID)
	st.mu.Lock()
	if !st.loaded {
		tctx, cancel := context.WithTimeout(ctx, e.timeout)
		list, err := e.store.Get(tctx, planID)
		cancel()
		if err != nil {
			st.mu.Unlock()
			return nil, &PersistenceError{Op: "load", Cause: err}
		}
		st.current = list
		st.loaded = true
	}
	return st, nil
}

// Regenerate replaces the entire list from the current meal set. The previous
// list is retained locally until the store confirms the replacement, so a
// failed regeneration leaves the old list visible.
func (e *Engine) Regenerate(ctx context.Context, planID string, meals []planner.Meal) (*GroceryList, error) {
	if len(meals) == 0 {
		return nil, newValidationError("cannot regenerate: meal plan has no meals")
	}

	built, err := Build(planID, meals)
	if err != nil {
		return nil, fmt.Errorf("failed to build grocery list: %w", err)
	}

	st, err := e.acquire(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()

	tctx, cancel := context.WithTimeout(ctx, e.timeout)
	canonical, err := e.store.Replace(tctx, planID, built)
	cancel()
	if err != nil {
		return nil, &PersistenceError{Op: "regenerate", Cause: err}
	}

	st.current = canonical
	return canonical.Clone(), nil
}

// AddItem appends a manually entered item. When section is empty the item is
// classified by name. Manual entries are never deduplicated against generated
// ones. The optimistically added item is removed again if persistence fails.
func (e *Engine) AddItem(ctx context.Context, planID, name, quantity, section string) (*GroceryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newValidationError("item name must not be empty")
	}
	section = strings.TrimSpace(section)
	if section == CompletedDepartment {
		return nil, newValidationError("%q is reserved for checked items", CompletedDepartment)
	}
	if section == "" {
		section = Classify(name)
	}

	id, err := generateID("itm")
	if err != nil {
		return nil, err
	}
	item := GroceryItem{
		ID:         id,
		Name:       name,
		Quantity:   strings.TrimSpace(quantity),
		Department: section,
	}

	st, err := e.acquire(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()

	snapshot := st.current.Clone()
	st.current.upsertItem(item)

	tctx, cancel := context.WithTimeout(ctx, e.timeout)
	canonical, err := e.store.UpsertItem(tctx, planID, item)
	cancel()
	if err != nil {
		st.current = snapshot
		return nil, &PersistenceError{Op: "add item", Cause: err}
	}

	st.current = canonical
	return &item, nil
}

// RemoveItem deletes an item from its department, pruning the department when
// it empties. Removing an unknown id is a no-op.
func (e *Engine) RemoveItem(ctx context.Context, planID, itemID string) error {
	st, err := e.acquire(ctx, planID)
	if err != nil {
		return err
	}
	defer st.mu.Unlock()

	if _, _, err := st.current.FindItem(itemID); err != nil {
		return nil // idempotent delete
	}

	snapshot := st.current.Clone()
	st.current.removeItem(itemID)

	tctx, cancel := context.WithTimeout(ctx, e.timeout)
	canonical, err := e.store.DeleteItem(tctx, planID, itemID)
	cancel()
	if err != nil {
		st.current = snapshot
		return &PersistenceError{Op: "remove item", Cause: err}
	}

	st.current = canonical
	return nil
}

// Check marks an item as checked. The item stays in its department; any
// "completed" grouping is a presentation projection, not a model change.
// Unknown ids are a no-op.
func (e *Engine) Check(ctx context.Context, planID, itemID string) error {
	return e.setChecked(ctx, planID, itemID, true)
}

// Uncheck clears an item's checked state. An item parked in the
// "Completed Items" pseudo-department by a reorganize is reclassified back
// into its taxonomy department. Unknown ids are a no-op.
func (e *Engine) Uncheck(ctx context.Context, planID, itemID string) error {
	return e.setChecked(ctx, planID, itemID, false)
}

func (e *Engine) setChecked(ctx context.Context, planID, itemID string, checked bool) error {
	st, err := e.acquire(ctx, planID)
	if err != nil {
		return err
	}
	defer st.mu.Unlock()

	item, dept, err := st.current.FindItem(itemID)
	if err != nil {
		return nil // benign no-op
	}
	if item.IsChecked == checked {
		return nil
	}

	item.IsChecked = checked
	item.Department = dept
	if !checked && dept == CompletedDepartment {
		item.Department = Classify(item.Name)
	}

	snapshot := st.current.Clone()
	st.current.upsertItem(item)

	tctx, cancel := context.WithTimeout(ctx, e.timeout)
	canonical, err := e.store.UpsertItem(tctx, planID, item)
	cancel()
	if err != nil {
		st.current = snapshot
		op := "check item"
		if !checked {
			op = "uncheck item"
		}
		return &PersistenceError{Op: op, Cause: err}
	}

	st.current = canonical
	return nil
}

// ClearAll replaces the list with zero sections.
func (e *Engine) ClearAll(ctx context.Context, planID string) error {
	st, err := e.acquire(ctx, planID)
	if err != nil {
		return err
	}
	defer st.mu.Unlock()

	snapshot := st.current.Clone()
	st.current = &GroceryList{ID: planID}

	tctx, cancel := context.WithTimeout(ctx, e.timeout)
	canonical, err := e.store.Replace(tctx, planID, st.current)
	cancel()
	if err != nil {
		st.current = snapshot
		return &PersistenceError{Op: "clear", Cause: err}
	}

	st.current = canonical
	return nil
}

// Reorganize reclassifies every unchecked item by its current name, ignoring
// its previous department, and repartitions the list. Checked items are
// preserved, segregated into the "Completed Items" pseudo-department so they
// stay visible but are excluded from reclassification. Item ids are kept.
func (e *Engine) Reorganize(ctx context.Context, planID string) (*GroceryList, error) {
	st, err := e.acquire(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()

	if st.current.UncheckedCount() == 0 {
		return nil, newValidationError("cannot reorganize: list has no unchecked items")
	}

	snapshot := st.current.Clone()
	rebuilt := &GroceryList{ID: planID}
	for _, sec := range snapshot.Sections {
		for _, item := range sec.Items {
			if item.IsChecked {
				item.Department = CompletedDepartment
			} else {
				item.Department = Classify(item.Name)
			}
			target := rebuilt.ensureSection(item.Department)
			target.Items = append(target.Items, item)
		}
	}
	st.current = rebuilt

	tctx, cancel := context.WithTimeout(ctx, e.timeout)
	canonical, err := e.store.Replace(tctx, planID, rebuilt)
	cancel()
	if err != nil {
		st.current = snapshot
		return nil, &PersistenceError{Op: "reorganize", Cause: err}
	}

	st.current = canonical
	return canonical.Clone(), nil
}

// List returns a copy of the current read model for a meal plan.
func (e *Engine) List(ctx context.Context, planID string) (*GroceryList, error) {
	st, err := e.acquire(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	return st.current.Clone(), nil
}

// Sections returns a copy of the current sections for a meal plan.
func (e *Engine) Sections(ctx context.Context, planID string) ([]GroceryDepartment, error) {
	list, err := e.List(ctx, planID)
	if err != nil {
		return nil, err
	}
	return list.Sections, nil
}

// Export renders the current unchecked items as a plain-text shopping list.
func (e *Engine) Export(ctx context.Context, planID string, opts ExportOptions) (string, error) {
	st, err := e.acquire(ctx, planID)
	if err != nil {
		return "", err
	}
	defer st.mu.Unlock()
	return ExportText(st.current, opts), nil
}
