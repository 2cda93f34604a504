// Package form implements the create/edit restaurant form controller.
//
// A Form moves through
//
//	empty → editing → submitting → succeeded
//	                             → failed → editing (on the next change)
//
// Submit re-validates on every attempt and performs at most one network
// call at a time: a second Submit while one is pending is rejected with
// ErrSubmitInProgress before anything is sent.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aanand-mishra/restaurant-directory/internal/storage"
	"github.com/aanand-mishra/restaurant-directory/internal/types"
	"github.com/aanand-mishra/restaurant-directory/internal/validation"
)

// Messages shown above the form.
const (
	MsgFixErrors     = "Please fix the validation errors below."
	MsgAdded         = "Restaurant added successfully!"
	MsgUpdated       = "Restaurant updated successfully!"
	MsgSaveFailed    = "Failed to save restaurant. Please try again."
	MsgNoLongerExist = "Restaurant no longer exists."
)

var (
	// ErrSubmitInProgress is returned by Submit while another submission
	// of the same form is pending.
	ErrSubmitInProgress = errors.New("form: submit already in progress")

	// ErrUnknownField is returned by Set for a field the form does not have.
	ErrUnknownField = errors.New("form: unknown field")
)

// Mode tells whether the form creates a new restaurant or edits one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// State is the form's position in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateEditing
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fields lists the inputs of the form, in display order.
var Fields = []string{"name", "email", "mobile", "city", "state", "country", "address", "description"}

// Navigator is what the form needs from routing.
type Navigator interface {
	ToList()
}

// Form is one form instance. It is safe for concurrent use.
type Form struct {
	store     storage.Storage
	validator *validation.Validator
	nav       Navigator
	logger    *slog.Logger

	mode Mode
	id   int64

	mu          sync.Mutex
	state       State
	values      types.RestaurantInput
	fieldErrors validation.FieldErrors
	success     string
	errMsg      string
}

// NewCreate returns an empty form that creates a restaurant on submit.
func NewCreate(store storage.Storage, v *validation.Validator, nav Navigator, logger *slog.Logger) *Form {
	return &Form{
		store:     store,
		validator: v,
		nav:       nav,
		logger:    orDefault(logger),
		mode:      ModeCreate,
		state:     StateEmpty,
	}
}

// NewEdit returns a form editing restaurant id, pre-filled with its
// current values.
//
// handoff is the record the caller already has (e.g. the row picked in the
// list); it is used only when its ID matches. Otherwise the record is
// fetched, and storage.ErrNotFound is returned when it does not exist.
func NewEdit(ctx context.Context, store storage.Storage, v *validation.Validator, nav Navigator, logger *slog.Logger, id int64, handoff *types.Restaurant) (*Form, error) {
	f := &Form{
		store:     store,
		validator: v,
		nav:       nav,
		logger:    orDefault(logger),
		mode:      ModeEdit,
		id:        id,
	}

	var current types.Restaurant
	if handoff != nil && handoff.ID == id {
		current = *handoff
	} else {
		r, found, err := store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("edit restaurant %d: %w", id, storage.ErrNotFound)
		}
		current = r
	}

	f.values = current.Input()
	f.state = StateEditing
	return f, nil
}

// Mode returns whether the form creates or edits.
func (f *Form) Mode() Mode { return f.mode }

// ID returns the restaurant being edited, 0 in create mode.
func (f *Form) ID() int64 { return f.id }

// Set changes one field's value. Field errors from the last submit stay
// visible until the next submit.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ptr := fieldPtr(&f.values, field)
	if ptr == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	*ptr = value

	if f.state != StateSubmitting {
		f.state = StateEditing
		f.success = ""
	}
	return nil
}

// SetAll replaces every value at once.
func (f *Form) SetAll(in types.RestaurantInput) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = in
	if f.state != StateSubmitting {
		f.state = StateEditing
		f.success = ""
	}
}

// Submit validates the current values and, when they pass, creates or
// updates the restaurant.
//
// It returns validation.FieldErrors when validation fails,
// ErrSubmitInProgress when another submission is pending, or the storage
// error of a failed save. On success the form is cleared and the
// navigator is sent to the list.
func (f *Form) Submit(ctx context.Context) (types.Restaurant, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return types.Restaurant{}, ErrSubmitInProgress
	}

	f.fieldErrors = nil
	f.success = ""
	f.errMsg = ""

	in, err := f.validator.Validate(f.values)
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			f.fieldErrors = fieldErrs
		}
		f.errMsg = MsgFixErrors
		f.state = StateFailed
		f.mu.Unlock()
		return types.Restaurant{}, err
	}

	f.state = StateSubmitting
	f.mu.Unlock()

	// The network call runs without the lock so View and a concurrent
	// Submit observe StateSubmitting.
	var saved types.Restaurant
	if f.mode == ModeEdit {
		saved, err = f.store.Update(ctx, f.id, in)
	} else {
		saved, err = f.store.Create(ctx, in)
	}

	f.mu.Lock()
	if err != nil {
		f.state = StateFailed
		f.errMsg = MsgSaveFailed
		if errors.Is(err, storage.ErrNotFound) {
			f.errMsg = MsgNoLongerExist
		}
		f.mu.Unlock()

		f.logger.Error("saving restaurant failed",
			slog.String("mode", f.mode.String()),
			slog.Int64("id", f.id),
			slog.String("error", err.Error()))
		return types.Restaurant{}, err
	}

	f.values = types.RestaurantInput{}
	f.state = StateSucceeded
	f.success = MsgAdded
	if f.mode == ModeEdit {
		f.success = MsgUpdated
	}
	f.mu.Unlock()

	f.logger.Info("restaurant saved",
		slog.String("mode", f.mode.String()),
		slog.Int64("id", saved.ID))

	if f.nav != nil {
		f.nav.ToList()
	}
	return saved, nil
}

// Cancel leaves the form for the list.
func (f *Form) Cancel() {
	if f.nav != nil {
		f.nav.ToList()
	}
}

// View is a snapshot of everything a renderer needs.
type View struct {
	Mode           Mode
	ID             int64
	State          State
	Busy           bool
	Values         types.RestaurantInput
	FieldErrors    map[string]string
	SuccessMessage string
	ErrorMessage   string
}

// FieldError returns the message for field, or "".
func (v View) FieldError(field string) string {
	return v.FieldErrors[field]
}

// View returns a snapshot of the form.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := make(map[string]string, len(f.fieldErrors))
	for k, msg := range f.fieldErrors {
		errs[k] = msg
	}

	return View{
		Mode:           f.mode,
		ID:             f.id,
		State:          f.state,
		Busy:           f.state == StateSubmitting,
		Values:         f.values,
		FieldErrors:    errs,
		SuccessMessage: f.success,
		ErrorMessage:   f.errMsg,
	}
}

func fieldPtr(in *types.RestaurantInput, field string) *string {
	switch field {
	case "name":
		return &in.Name
	case "email":
		return &in.Email
	case "mobile":
		return &in.Mobile
	case "city":
		return &in.City
	case "state":
		return &in.State
	case "country":
		return &in.Country
	case "address":
		return &in.Address
	case "description":
		return &in.Description
	default:
		return nil
	}
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
