// Package table implements the restaurant list controller.
//
// The list holds no cache beyond its own rows: every Load re-fetches the
// whole collection, and a delete is followed by a fresh Load.
package table

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/aanand-mishra/restaurant-directory/internal/types"
)

// Messages shown above the table.
const (
	MsgLoadFailed   = "Failed to load restaurants. Please try again."
	MsgDeleteFailed = "Failed to delete restaurant. Please try again."
	MsgDeleted      = "Restaurant deleted successfully!"
)

var (
	// ErrBusy is returned while another load or delete of the same list
	// is pending.
	ErrBusy = errors.New("table: operation in progress")

	// ErrNotConfirmed is returned by Delete when the user declined.
	ErrNotConfirmed = errors.New("table: delete not confirmed")

	// ErrUnknownRow is returned by Edit for an id that is not in the list.
	ErrUnknownRow = errors.New("table: unknown row")
)

// Store is the part of storage.Storage the list uses.
type Store interface {
	ListAll(ctx context.Context) ([]types.Restaurant, error)
	Delete(ctx context.Context, id int64) error
}

// Navigator is what the list needs from routing. ToEdit receives the row
// so the form can skip fetching it again.
type Navigator interface {
	ToAdd()
	ToEdit(id int64, handoff *types.Restaurant)
}

// Confirmer asks the user to confirm deleting a restaurant.
type Confirmer interface {
	ConfirmDelete(r types.Restaurant) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(r types.Restaurant) bool

// ConfirmDelete calls fn(r).
func (fn ConfirmFunc) ConfirmDelete(r types.Restaurant) bool { return fn(r) }

// Table is one list view instance. It is safe for concurrent use.
type Table struct {
	store  Store
	nav    Navigator
	logger *slog.Logger

	mu      sync.Mutex
	busy    bool
	loaded  bool
	rows    []types.Restaurant
	errMsg  string
	success string
}

// New returns an empty, not yet loaded list.
func New(store Store, nav Navigator, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{store: store, nav: nav, logger: logger}
}

// Load re-fetches every restaurant. On failure the rows are emptied and
// the error message is set.
func (t *Table) Load(ctx context.Context) error {
	if !t.acquire() {
		return ErrBusy
	}
	defer t.releaseBusy()

	return t.load(ctx)
}

func (t *Table) load(ctx context.Context) error {
	rows, err := t.store.ListAll(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.rows = nil
		t.loaded = false
		t.errMsg = MsgLoadFailed
		t.logger.Error("loading restaurants failed", slog.String("error", err.Error()))
		return err
	}

	t.rows = rows
	t.loaded = true
	t.errMsg = ""
	return nil
}

// Rows returns the loaded rows matching filter. The filter is a
// case-insensitive substring match over every text column and the id;
// an empty filter matches everything.
func (t *Table) Rows(filter string) []types.Restaurant {
	t.mu.Lock()
	defer t.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(filter))
	out := make([]types.Restaurant, 0, len(t.rows))
	for _, r := range t.rows {
		if needle == "" || matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

// Delete asks for confirmation, deletes restaurant id and reloads the
// list.
func (t *Table) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	row, ok := t.row(id)
	if !ok {
		row = types.Restaurant{ID: id}
	}
	if confirm == nil || !confirm.ConfirmDelete(row) {
		return ErrNotConfirmed
	}

	if !t.acquire() {
		return ErrBusy
	}
	defer t.releaseBusy()

	t.setMessages("", "")
	if err := t.store.Delete(ctx, id); err != nil {
		t.setMessages(MsgDeleteFailed, "")
		t.logger.Error("deleting restaurant failed",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return err
	}
	t.logger.Info("restaurant deleted", slog.Int64("id", id))

	if err := t.load(ctx); err != nil {
		return fmt.Errorf("reload after delete: %w", err)
	}
	t.setMessages("", MsgDeleted)
	return nil
}

// Edit opens the edit form for a loaded row, handing the row over.
func (t *Table) Edit(id int64) error {
	row, ok := t.row(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRow, id)
	}
	if t.nav != nil {
		t.nav.ToEdit(id, &row)
	}
	return nil
}

// Add opens the create form.
func (t *Table) Add() {
	if t.nav != nil {
		t.nav.ToAdd()
	}
}

// View is a snapshot of the list state.
type View struct {
	Loading        bool
	Loaded         bool
	Count          int
	ErrorMessage   string
	SuccessMessage string
}

// View returns a snapshot of the list state.
func (t *Table) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	return View{
		Loading:        t.busy,
		Loaded:         t.loaded,
		Count:          len(t.rows),
		ErrorMessage:   t.errMsg,
		SuccessMessage: t.success,
	}
}

func (t *Table) acquire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busy {
		return false
	}
	t.busy = true
	return true
}

func (t *Table) releaseBusy() {
	t.mu.Lock()
	t.busy = false
	t.mu.Unlock()
}

func (t *Table) setMessages(errMsg, success string) {
	t.mu.Lock()
	t.errMsg = errMsg
	t.success = success
	t.mu.Unlock()
}

func (t *Table) row(id int64) (types.Restaurant, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, r := range t.rows {
		if r.ID == id {
			return r, true
		}
	}
	return types.Restaurant{}, false
}

func matches(r types.Restaurant, needle string) bool {
	for _, v := range []string{
		strconv.FormatInt(r.ID, 10),
		r.Name, r.Email, r.Mobile, r.Description,
		r.City, r.State, r.Country, r.Address,
	} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
