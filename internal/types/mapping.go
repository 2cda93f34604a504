package types

// Flatten converts a backend record into the flattened view shape.
// A record without a location object yields empty location fields.
func Flatten(rec Record) Restaurant {
	r := Restaurant{
		ID:          rec.ID,
		Name:        rec.Name,
		Email:       rec.Email,
		Mobile:      rec.Mobile,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.Location != nil {
		r.City = rec.Location.City
		r.State = rec.Location.State
		r.Country = rec.Location.Country
		r.Address = rec.Location.Address
	}
	return r
}

// FlattenAll flattens every record. The result is never nil.
func FlattenAll(recs []Record) []Restaurant {
	out := make([]Restaurant, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Flatten(rec))
	}
	return out
}

// Nest converts an input into the wire payload. The location object is
// always present and description is always sent, empty when absent.
func Nest(in RestaurantInput) Payload {
	return Payload{
		Name:        in.Name,
		Email:       in.Email,
		Mobile:      in.Mobile,
		Description: in.Description,
		Location: &Location{
			City:    in.City,
			State:   in.State,
			Country: in.Country,
			Address: in.Address,
		},
	}
}

// Input is the inverse of Nest.
func (p Payload) Input() RestaurantInput {
	in := RestaurantInput{
		Name:        p.Name,
		Email:       p.Email,
		Mobile:      p.Mobile,
		Description: p.Description,
	}
	if p.Location != nil {
		in.City = p.Location.City
		in.State = p.Location.State
		in.Country = p.Location.Country
		in.Address = p.Location.Address
	}
	return in
}

// Input returns the editable subset of a flattened restaurant.
func (r Restaurant) Input() RestaurantInput {
	return RestaurantInput{
		Name:        r.Name,
		Email:       r.Email,
		Mobile:      r.Mobile,
		City:        r.City,
		State:       r.State,
		Country:     r.Country,
		Address:     r.Address,
		Description: r.Description,
	}
}

// Record builds the wire record for a flattened restaurant.
func (r Restaurant) Record() Record {
	return Record{
		ID:        r.ID,
		Payload:   Nest(r.Input()),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
