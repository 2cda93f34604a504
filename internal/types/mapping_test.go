package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pizzaPalace() RestaurantInput {
	return RestaurantInput{
		Name:    "Pizza Palace",
		Email:   "info@pizzapalace.com",
		Mobile:  "+15550123",
		City:    "New York",
		State:   "NY",
		Country: "USA",
		Address: "123 Broadway St",
	}
}

func TestNestGroupsLocationFields(t *testing.T) {
	body, err := json.Marshal(Nest(pizzaPalace()))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "Pizza Palace",
		"email": "info@pizzapalace.com",
		"mobile": "+15550123",
		"description": "",
		"location": {
			"city": "New York",
			"state": "NY",
			"country": "USA",
			"address": "123 Broadway St"
		}
	}`, string(body))
}

func TestFlattenPromotesLocationFields(t *testing.T) {
	raw := `{
		"id": 7,
		"name": "Sushi Express",
		"email": "contact@sushiexpress.com",
		"mobile": "+15550456",
		"description": "Fresh sushi",
		"location": {"city": "Los Angeles", "state": "CA", "country": "USA", "address": "456 Sunset Blvd"},
		"createdAt": "2025-01-02T03:04:05Z",
		"updatedAt": "2025-01-03T03:04:05Z"
	}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, Restaurant{
		ID:          7,
		Name:        "Sushi Express",
		Email:       "contact@sushiexpress.com",
		Mobile:      "+15550456",
		Description: "Fresh sushi",
		City:        "Los Angeles",
		State:       "CA",
		Country:     "USA",
		Address:     "456 Sunset Blvd",
		CreatedAt:   "2025-01-02T03:04:05Z",
		UpdatedAt:   "2025-01-03T03:04:05Z",
	}, Flatten(rec))
}

func TestFlattenWithoutLocation(t *testing.T) {
	r := Flatten(Record{ID: 3, Payload: Payload{Name: "Burger House"}})

	assert.Equal(t, int64(3), r.ID)
	assert.Equal(t, "Burger House", r.Name)
	assert.Empty(t, r.City)
	assert.Empty(t, r.Address)
}

func TestFlattenAllNeverNil(t *testing.T) {
	out := FlattenAll(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestNestFlattenRoundTrip(t *testing.T) {
	inputs := []RestaurantInput{
		pizzaPalace(),
		{Name: "Taco Fiesta", Description: "Street food", City: "Miami", Address: "321 Ocean Dr"},
		{},
	}
	for _, in := range inputs {
		got := Flatten(Record{ID: 42, Payload: Nest(in)})
		assert.Equal(t, in, got.Input())
		assert.Equal(t, in, Nest(in).Input())
	}
}

func TestRestaurantRecordKeepsIdentity(t *testing.T) {
	r := Flatten(Record{ID: 9, Payload: Nest(pizzaPalace()), CreatedAt: "c", UpdatedAt: "u"})
	assert.Equal(t, r, Flatten(r.Record()))
}
