// Package validation holds the one rule set every restaurant submission
// is checked against. The form controller and the development backend both
// use it, so a record accepted by one is accepted by the other.
//
// The rules themselves are validate:"..." tags on types.RestaurantInput,
// checked by go-playground/validator. This package adds:
//
//   - normalization (trimming, whitespace stripping of mobile numbers)
//   - the custom "mobile" rule
//   - a message for every field/rule pair
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/aanand-mishra/restaurant-directory/internal/types"
	"github.com/go-playground/validator/v10"
)

// mobilePattern accepts an optional leading "+", then up to 16 digits of
// which the first is not zero.
var mobilePattern = regexp.MustCompile(`^[+]?[1-9][0-9]{0,15}$`)

// messages maps field -> rule tag -> message shown to the user.
var messages = map[string]map[string]string{
	"name":    {"required": "Restaurant name is required"},
	"email":   {"required": "Email is required", "email": "Please enter a valid email address"},
	"mobile":  {"required": "Mobile number is required", "mobile": "Please enter a valid mobile number"},
	"city":    {"required": "City is required"},
	"state":   {"required": "State is required"},
	"country": {"required": "Country is required"},
	"address": {"required": "Address is required"},
}

// FieldErrors maps a field name (its JSON key) to the message of the first
// rule it broke.
type FieldErrors map[string]string

// Error joins every field error in field-name order.
func (fe FieldErrors) Error() string {
	fields := fe.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Fields returns the names of the failing fields, sorted.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Validator checks restaurant submissions. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON key ("name") instead of the Go field
	// name ("Name"), so field errors line up with form inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate normalizes in and checks every field independently.
//
// On success it returns the normalized input and a nil error. Otherwise
// the error is a FieldErrors holding one message per failing field.
func (v *Validator) Validate(in types.RestaurantInput) (types.RestaurantInput, error) {
	out := Normalize(in)

	err := v.validate.Struct(out)
	if err == nil {
		return out, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return types.RestaurantInput{}, err
	}

	fieldErrs := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		// validator stops at the first failing rule of a field, so there
		// is at most one entry per field here.
		fieldErrs[e.Field()] = message(e.Field(), e.Tag())
	}
	return types.RestaurantInput{}, fieldErrs
}

// Normalize trims every field and strips all whitespace from the mobile
// number.
func Normalize(in types.RestaurantInput) types.RestaurantInput {
	return types.RestaurantInput{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Mobile:      stripSpaces(in.Mobile),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Country:     strings.TrimSpace(in.Country),
		Address:     strings.TrimSpace(in.Address),
		Description: strings.TrimSpace(in.Description),
	}
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func message(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return field + " is invalid"
}
