// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles —
// the REST client, the SQLite store, the validators and the controllers
// can all import types without depending on each other.
//
// Two shapes of the same restaurant live here:
//
//   - Restaurant is the FLATTENED shape every view works with: location
//     fields sit next to the descriptive fields.
//   - Record / Payload are the NESTED wire shape the backend speaks:
//     location fields are grouped under a "location" object.
//
// The conversion between the two is in mapping.go.
package types

// Restaurant is one restaurant as the list and the form see it.
//
// CreatedAt / UpdatedAt are assigned by the server and are kept as the raw
// strings it sent; the client never writes them.
type Restaurant struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	Description string `json:"description"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// RestaurantInput is the editable part of a restaurant: what a create or
// update submission carries.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     — the key used for the field in JSON and as the key
//     of a field error (see the validation package).
//  2. validate:"..." — rules checked by go-playground/validator.
//     "mobile" is a custom rule registered by the validation package.
type RestaurantInput struct {
	Name        string `json:"name"        validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Mobile      string `json:"mobile"      validate:"required,mobile"`
	City        string `json:"city"        validate:"required"`
	State       string `json:"state"       validate:"required"`
	Country     string `json:"country"     validate:"required"`
	Address     string `json:"address"     validate:"required"`
	Description string `json:"description"`
}

// Location is the nested location object of the wire shape.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Address string `json:"address"`
}

// Payload is the request body of create and update calls.
type Payload struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Description string    `json:"description"`
	Location    *Location `json:"location"`
}

// Record is a restaurant as the backend returns it.
type Record struct {
	ID int64 `json:"id"`
	Payload
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
