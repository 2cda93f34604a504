package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aanand-mishra/restaurant-directory/internal/storage"
	"github.com/aanand-mishra/restaurant-directory/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pizzaPalaceJSON = `{
	"id": 1,
	"name": "Pizza Palace",
	"email": "info@pizzapalace.com",
	"mobile": "+15550123",
	"description": "",
	"location": {"city": "New York", "state": "NY", "country": "USA", "address": "123 Broadway St"},
	"createdAt": "2025-05-01T10:00:00Z",
	"updatedAt": "2025-05-01T10:00:00Z"
}`

func pizzaPalace() types.RestaurantInput {
	return types.RestaurantInput{
		Name:    "Pizza Palace",
		Email:   "info@pizzapalace.com",
		Mobile:  "+15550123",
		City:    "New York",
		State:   "NY",
		Country: "USA",
		Address: "123 Broadway St",
	}
}

// newTestClient starts a server running handler and returns a client
// pointed at its "/api/RestaurantWithLocation" resource.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api/", "RestaurantWithLocation", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New("localhost:5112", "RestaurantWithLocation")
	assert.Error(t, err)

	_, err = New("http://localhost:5112/api", " / ")
	assert.Error(t, err)

	_, err = New("http://localhost:5112/api", "")
	assert.Error(t, err)
}

func TestListAll(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/RestaurantWithLocation", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		_, _ = io.WriteString(w, "["+pizzaPalaceJSON+"]")
	})

	got, err := c.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "Pizza Palace", got[0].Name)
	assert.Equal(t, "New York", got[0].City)
	assert.Equal(t, "123 Broadway St", got[0].Address)
	assert.Equal(t, "2025-05-01T10:00:00Z", got[0].CreatedAt)
}

func TestListAllEmpty(t *testing.T) {
	for _, body := range []string{"[]", "null"} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		got, err := c.ListAll(context.Background())
		require.NoError(t, err, body)
		assert.NotNil(t, got, body)
		assert.Empty(t, got, body)
	}
}

func TestListAllFailures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[{"id": "one"`)
		},
		"missing resource": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, handler)

			_, err := c.ListAll(context.Background())
			assert.ErrorIs(t, err, storage.ErrOperationFailed)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, "RestaurantWithLocation")
	require.NoError(t, err)

	_, err = c.ListAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrOperationFailed)

	_, _, err = c.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, storage.ErrOperationFailed)

	err = c.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, storage.ErrOperationFailed)
}

func TestGetByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/RestaurantWithLocation/1", r.URL.Path)
		_, _ = io.WriteString(w, pizzaPalaceJSON)
	})

	got, found, err := c.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, pizzaPalace(), got.Input())
}

func TestGetByIDNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	got, found, err := c.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, types.Restaurant{}, got)
}

func TestCreateSendsNestedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/RestaurantWithLocation", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"name": "Pizza Palace",
			"email": "info@pizzapalace.com",
			"mobile": "+15550123",
			"description": "",
			"location": {"city": "New York", "state": "NY", "country": "USA", "address": "123 Broadway St"}
		}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, pizzaPalaceJSON)
	})

	got, err := c.Create(context.Background(), pizzaPalace())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, pizzaPalace(), got.Input())
}

func TestCreateRejectsEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := c.Create(context.Background(), pizzaPalace())
	assert.ErrorIs(t, err, storage.ErrOperationFailed)
}

func TestCreateBadRequestIsOperationFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":"error"}`)
	})

	_, err := c.Create(context.Background(), pizzaPalace())
	assert.ErrorIs(t, err, storage.ErrOperationFailed)
}

func TestUpdate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/RestaurantWithLocation/1", r.URL.Path)

		var p types.Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		require.NotNil(t, p.Location)
		assert.Equal(t, "Boston", p.Location.City)

		_, _ = io.WriteString(w, `{"id":1,"name":"Pizza Palace","location":{"city":"Boston"}}`)
	})

	in := pizzaPalace()
	in.City = "Boston"

	got, err := c.Update(context.Background(), 1, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Boston", got.City)
}

func TestUpdateNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	got, err := c.Update(context.Background(), 5, pizzaPalace())
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, pizzaPalace(), got.Input())
}

func TestRecordWithoutIDIsOperationFailure(t *testing.T) {
	for _, body := range []string{`null`, `{}`, `{"name":"Pizza Palace","location":{"city":"New York"}}`} {
		t.Run(body, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})

			_, err := c.Create(context.Background(), pizzaPalace())
			assert.ErrorIs(t, err, storage.ErrOperationFailed)

			_, found, err := c.GetByID(context.Background(), 1)
			assert.ErrorIs(t, err, storage.ErrOperationFailed)
			assert.False(t, found)
		})
	}
}

func TestUpdateNullBodyRebuildsRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "null\n")
	})

	got, err := c.Update(context.Background(), 5, pizzaPalace())
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, pizzaPalace(), got.Input())
}

func TestUpdateRecordWithoutIDIsOperationFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"name":"Pizza Palace"}`)
	})

	_, err := c.Update(context.Background(), 5, pizzaPalace())
	assert.ErrorIs(t, err, storage.ErrOperationFailed)
}

func TestUpdateNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Update(context.Background(), 5, pizzaPalace())
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NotErrorIs(t, err, storage.ErrOperationFailed)
}

func TestDelete(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/RestaurantWithLocation/3", r.URL.Path)
		if calls.Add(1) > 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Delete(context.Background(), 3))
	// The second delete hits a missing id and still succeeds.
	require.NoError(t, c.Delete(context.Background(), 3))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDeleteServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	assert.ErrorIs(t, c.Delete(context.Background(), 3), storage.ErrOperationFailed)
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListAll(ctx)
	assert.ErrorIs(t, err, storage.ErrOperationFailed)
}
