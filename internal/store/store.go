// Package store is the domain repository: it owns the authoritative
// collections of ingredients, recipes, events and orders, serializes
// all mutations against one in-memory snapshot, and persists that
// snapshot as a single JSON blob in the app_state table. The cost and
// stock engines stay pure; every side effect lives here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pasteleria-pro/internal/catalog"
	"pasteleria-pro/internal/database"
	"pasteleria-pro/internal/stock"
)

// stateKey is the single key the snapshot is stored under.
const stateKey = "pasteleria-pro-data"

// ErrNotFound reports an update or delete against an id that is not in
// the current snapshot.
var ErrNotFound = errors.New("record not found")

// Store is the sole mutator of the shop's state. Every public mutation
// is one critical section ending in one atomic write of the whole
// snapshot, so partially applied stock adjustments are never observable.
type Store struct {
	db  *sql.DB
	log *logrus.Entry

	mu    sync.Mutex
	state State
}

// Open loads the persisted snapshot (empty if none exists yet) and
// returns a ready Store.
func Open(ctx context.Context, db *database.DB, log *logrus.Logger) (*Store, error) {
	s := &Store{
		db:  db.SQL,
		log: log.WithField("component", "store"),
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM app_state WHERE key = ?`, stateKey).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.log.Info("no persisted state found, starting empty")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load persisted state: %w", err)
	}

	st, err := decodeState([]byte(data))
	if err != nil {
		return nil, err
	}
	s.state = st
	s.log.WithFields(logrus.Fields{
		"ingredients": len(st.Ingredients),
		"recipes":     len(st.Recipes),
		"events":      len(st.Events),
		"orders":      len(st.Orders),
	}).Info("loaded persisted state")
	return s, nil
}

// Snapshot returns a deep copy of the current state for reading.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// commit persists next and, only on success, makes it the current
// state. A failed write leaves the in-memory snapshot untouched.
func (s *Store) commit(ctx context.Context, next State) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		stateKey, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	s.state = next
	return nil
}

// AddIngredient validates the ingredient, assigns it an id and stores it.
func (s *Store) AddIngredient(ctx context.Context, ing catalog.Ingredient) (catalog.Ingredient, error) {
	if err := catalog.ValidateIngredient(ing); err != nil {
		return catalog.Ingredient{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ing.ID = uuid.NewString()
	next := s.state.Clone()
	next.Ingredients = append(next.Ingredients, ing)
	if err := s.commit(ctx, next); err != nil {
		return catalog.Ingredient{}, err
	}
	s.log.WithField("ingredient", ing.Name).Info("ingredient added")
	return ing, nil
}

// UpdateIngredient replaces every field of the ingredient except its id.
func (s *Store) UpdateIngredient(ctx context.Context, id string, ing catalog.Ingredient) error {
	if err := catalog.ValidateIngredient(ing); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	i, ok := indexByID(next.Ingredients, func(x catalog.Ingredient) string { return x.ID }, id)
	if !ok {
		return fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	ing.ID = id
	next.Ingredients[i] = ing
	return s.commit(ctx, next)
}

// DeleteIngredient removes the ingredient. Recipes referencing it keep
// their lines; the dangling reference contributes zero from then on.
func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	i, ok := indexByID(next.Ingredients, func(x catalog.Ingredient) string { return x.ID }, id)
	if !ok {
		return fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	next.Ingredients = append(next.Ingredients[:i], next.Ingredients[i+1:]...)
	return s.commit(ctx, next)
}

// AddRecipe validates the recipe, assigns it an id and stores it.
func (s *Store) AddRecipe(ctx context.Context, r catalog.Recipe) (catalog.Recipe, error) {
	if err := catalog.ValidateRecipe(r); err != nil {
		return catalog.Recipe{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.NewString()
	next := s.state.Clone()
	next.Recipes = append(next.Recipes, r)
	if err := s.commit(ctx, next); err != nil {
		return catalog.Recipe{}, err
	}
	s.log.WithField("recipe", r.Name).Info("recipe added")
	return r, nil
}

// UpdateRecipe replaces every field of the recipe except its id.
func (s *Store) UpdateRecipe(ctx context.Context, id string, r catalog.Recipe) error {
	if err := catalog.ValidateRecipe(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	i, ok := indexByID(next.Recipes, func(x catalog.Recipe) string { return x.ID }, id)
	if !ok {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	r.ID = id
	next.Recipes[i] = r
	return s.commit(ctx, next)
}

// DeleteRecipe removes the recipe. Events and orders referencing it
// keep their usages; those contribute zero cost and no stock movement.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	i, ok := indexByID(next.Recipes, func(x catalog.Recipe) string { return x.ID }, id)
	if !ok {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	next.Recipes = append(next.Recipes[:i], next.Recipes[i+1:]...)
	return s.commit(ctx, next)
}

// AddEvent stores the event and consumes the stock its usages imply.
func (s *Store) AddEvent(ctx context.Context, e catalog.Event) (catalog.Event, error) {
	if err := catalog.ValidateEvent(e); err != nil {
		return catalog.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	next := s.state.Clone()
	next.Ingredients = stock.Adjust(next.Ingredients, next.RecipeIndex(), e.Recipes, stock.Consume)
	next.Events = append(next.Events, e)
	if err := s.commit(ctx, next); err != nil {
		return catalog.Event{}, err
	}
	s.log.WithField("event", e.Name).Info("event created, stock consumed")
	return e, nil
}

// UpdateEvent replaces the event, restoring the stock of the old
// usages and consuming the new ones. Both adjustments happen inside one
// critical section and are persisted as a single write.
func (s *Store) UpdateEvent(ctx context.Context, id string, e catalog.Event) error {
	if err := catalog.ValidateEvent(e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	i, ok := indexByID(next.Events, func(x catalog.Event) string { return x.ID }, id)
	if !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}

	recipes := next.RecipeIndex()
	next.Ingredients = stock.Adjust(next.Ingredients, recipes, next.Events[i].Recipes, stock.Restore)
	next.Ingredients = stock.Adjust(next.Ingredients, recipes, e.Recipes, stock.Consume)
	e.ID = id
	next.Events[i] = e
	return s.commit(ctx, next)
}

// DeleteEvent removes the event and restores the stock it had consumed.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	i, ok := indexByID(next.Events, func(x catalog.Event) string { return x.ID }, id)
	if !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	next.Ingredients = stock.Adjust(next.Ingredients, next.RecipeIndex(), next.Events[i].Recipes, stock.Restore)
	next.Events = append(next.Events[:i], next.Events[i+1:]...)
	return s.commit(ctx, next)
}

// AddOrder stores the order and consumes the stock its items imply.
func (s *Store) AddOrder(ctx context.Context, o catalog.Order) (catalog.Order, error) {
	if err := catalog.ValidateOrder(o); err != nil {
		return catalog.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = uuid.NewString()
	next := s.state.Clone()
	next.Ingredients = stock.Adjust(next.Ingredients, next.RecipeIndex(), o.Usages(), stock.Consume)
	next.Orders = append(next.Orders, o)
	if err := s.commit(ctx, next); err != nil {
		return catalog.Order{}, err
	}
	s.log.WithField("customer", o.CustomerName).Info("order created, stock consumed")
	return o, nil
}

// UpdateOrder replaces the order, restoring the old items' stock and
// consuming the new ones, persisted as a single write.
func (s *Store) UpdateOrder(ctx context.Context, id string, o catalog.Order) error {
	if err := catalog.ValidateOrder(o); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	i, ok := indexByID(next.Orders, func(x catalog.Order) string { return x.ID }, id)
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}

	recipes := next.RecipeIndex()
	next.Ingredients = stock.Adjust(next.Ingredients, recipes, next.Orders[i].Usages(), stock.Restore)
	next.Ingredients = stock.Adjust(next.Ingredients, recipes, o.Usages(), stock.Consume)
	o.ID = id
	next.Orders[i] = o
	return s.commit(ctx, next)
}

// DeleteOrder removes the order and restores the stock it had consumed.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	i, ok := indexByID(next.Orders, func(x catalog.Order) string { return x.ID }, id)
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	next.Ingredients = stock.Adjust(next.Ingredients, next.RecipeIndex(), next.Orders[i].Usages(), stock.Restore)
	next.Orders = append(next.Orders[:i], next.Orders[i+1:]...)
	return s.commit(ctx, next)
}

// Export writes the current snapshot to path as indented JSON, in the
// same shape it is persisted in.
func (s *Store) Export(path string) error {
	snapshot := s.Snapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// Import replaces the whole snapshot with the contents of a previously
// exported file. Legacy ingredient shapes are migrated on the way in.
func (s *Store) Import(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	st, err := decodeState(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(ctx, st); err != nil {
		return err
	}
	s.log.WithField("path", path).Info("state imported")
	return nil
}

func indexByID[T any](items []T, id func(T) string, want string) (int, bool) {
	for i, item := range items {
		if id(item) == want {
			return i, true
		}
	}
	return 0, false
}
