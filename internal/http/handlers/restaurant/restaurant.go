// Package restaurant contains the HTTP handlers of the development
// backend's restaurant resource.
//
// The handlers speak the NESTED wire shape (types.Record / types.Payload),
// exactly like the production backend, so the REST client can be run and
// tested against them.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function accepts its dependencies (storage, validator)
// and returns a func(http.ResponseWriter, *http.Request). The inner
// function closes over the dependencies:
//
//	mux.HandleFunc("POST /api/RestaurantWithLocation", restaurant.New(store, v))
//	//                                                  ^^^^^^^^^^^^^^^^^^^^^
//	//                              New(store, v) is called ONCE at startup;
//	//                              the returned func runs on EVERY request.
package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/restaurant-directory/internal/storage"
	"github.com/aanand-mishra/restaurant-directory/internal/types"
	"github.com/aanand-mishra/restaurant-directory/internal/utils/response"
	"github.com/aanand-mishra/restaurant-directory/internal/validation"
)

var errNotFound = errors.New("restaurant not found")

// Register mounts the five routes of the resource at path
// (e.g. "/api/RestaurantWithLocation"):
//
//	POST   {path}        → create a restaurant
//	GET    {path}        → list all restaurants
//	GET    {path}/{id}   → get one restaurant
//	PUT    {path}/{id}   → update a restaurant
//	DELETE {path}/{id}   → delete a restaurant
func Register(mux *http.ServeMux, path string, store storage.Storage, v *validation.Validator) {
	mux.HandleFunc("POST "+path, New(store, v))
	mux.HandleFunc("GET "+path, GetList(store))
	mux.HandleFunc("GET "+path+"/{id}", GetByID(store))
	mux.HandleFunc("PUT "+path+"/{id}", Update(store, v))
	mux.HandleFunc("DELETE "+path+"/{id}", Delete(store))
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST {path}
// Creates a restaurant from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Pizza Palace", "email": "info@pizzapalace.com",
//	  "mobile": "+15550123", "description": "",
//	  "location": { "city": "New York", "state": "NY",
//	                "country": "USA", "address": "123 Broadway St" } }
//
// Success response (201 Created): the stored record, same shape plus
// "id", "createdAt" and "updatedAt".
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a restaurant", requestID(r))

		in, ok := decodeInput(w, r, v)
		if !ok {
			return
		}

		created, err := store.Create(r.Context(), in)
		if err != nil {
			slog.Error("error creating restaurant", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("restaurant created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created.Record())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET {path}/{id}
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no restaurant with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a restaurant", slog.Int64("id", id), requestID(r))

		rest, found, err := store.GetByID(r.Context(), id)
		if err != nil {
			slog.Error("error getting restaurant",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}
		if !found {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errNotFound))
			return
		}

		response.WriteJSON(w, http.StatusOK, rest.Record())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET {path}
// Returns a JSON array of every restaurant; [] (not null) when empty.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all restaurants", requestID(r))

		all, err := store.ListAll(r.Context())
		if err != nil {
			slog.Error("error getting restaurants", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		records := make([]types.Record, 0, len(all))
		for _, rest := range all {
			records = append(records, rest.Record())
		}
		response.WriteJSON(w, http.StatusOK, records)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT {path}/{id}
// Replaces every editable field of an existing restaurant. The body has
// the same shape as for creation.
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, or validation failure
//	404 Not Found    — no restaurant with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage, v *validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a restaurant", slog.Int64("id", id), requestID(r))

		in, ok := decodeInput(w, r, v)
		if !ok {
			return
		}

		updated, err := store.Update(r.Context(), id, in)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errNotFound))
			return
		}
		if err != nil {
			slog.Error("error updating restaurant",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("restaurant updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated.Record())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE {path}/{id}
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
//
// A missing id answers 404, like the production backend; the client treats
// that as an already-completed delete.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a restaurant", slog.Int64("id", id), requestID(r))

		found, err := remove(r.Context(), store, id)
		if err == nil && !found {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errNotFound))
			return
		}
		if err != nil {
			slog.Error("error deleting restaurant",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("restaurant deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// remover is implemented by stores that delete and report absence in one
// statement. Other stores get a lookup before the delete.
type remover interface {
	Remove(ctx context.Context, id int64) (bool, error)
}

func remove(ctx context.Context, store storage.Storage, id int64) (bool, error) {
	if rm, ok := store.(remover); ok {
		return rm.Remove(ctx, id)
	}

	_, found, err := store.GetByID(ctx, id)
	if err != nil || !found {
		return false, err
	}
	return true, store.Delete(ctx, id)
}

// pathID parses the {id} path segment, answering 400 when it is not an
// integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decodeInput decodes a wire payload and runs it through the shared rule
// set. It writes the 400 response itself when anything is wrong.
func decodeInput(w http.ResponseWriter, r *http.Request, v *validation.Validator) (types.RestaurantInput, bool) {
	var payload types.Payload

	err := json.NewDecoder(r.Body).Decode(&payload)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return types.RestaurantInput{}, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.RestaurantInput{}, false
	}

	in, err := v.Validate(payload.Input())
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(fieldErrs))
		} else {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		}
		return types.RestaurantInput{}, false
	}
	return in, true
}

func requestID(r *http.Request) slog.Attr {
	return slog.String("request_id", r.Header.Get("X-Request-Id"))
}
