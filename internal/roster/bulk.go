package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ErrNotesTooLong is returned when bulk notes exceed MaxNotesLength.
var ErrNotesTooLong = errors.New("notes are too long")

// MaxNotesLength bounds the free-text notes on an assignment.
const MaxNotesLength = 500

var validate = newValidator()

// newValidator registers the "notes" tag, which bounds a string to
// MaxNotesLength runes.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notes", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= MaxNotesLength
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidationError reports a rejected user input. It wraps one of the
// package's validation sentinels.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BulkRange is a validated contiguous range of hours on one calendar day.
// Ranges crossing midnight are not supported: End must be >= Start.
type BulkRange struct {
	Date  DateKey
	Start int    `validate:"gte=0,lte=23"`
	End   int    `validate:"gte=0,lte=23,gtefield=Start"`
	Notes string `validate:"notes"`
}

// ParseBulkRange validates raw user input for a bulk assignment.
func ParseBulkRange(date, start, end, notes string) (BulkRange, error) {
	key, err := ParseDateKey(strings.TrimSpace(date))
	if err != nil {
		return BulkRange{}, &ValidationError{Field: "date", Value: date, Err: err}
	}

	startHour, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return BulkRange{}, &ValidationError{Field: "start", Value: start, Err: ErrInvalidHour}
	}
	endHour, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return BulkRange{}, &ValidationError{Field: "end", Value: end, Err: ErrInvalidHour}
	}

	r := BulkRange{Date: key, Start: startHour, End: endHour, Notes: strings.TrimSpace(notes)}
	if err := r.Validate(); err != nil {
		return BulkRange{}, err
	}
	return r, nil
}

// Validate checks the hour bounds and ordering.
func (r BulkRange) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating bulk range: %w", err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	value := fmt.Sprint(fe.Value())
	switch fe.Tag() {
	case "gtefield":
		return &ValidationError{Field: field, Value: value, Err: ErrInvalidRange}
	case "notes":
		return &ValidationError{Field: field, Err: ErrNotesTooLong}
	default:
		return &ValidationError{Field: field, Value: value, Err: ErrInvalidHour}
	}
}

// Hours returns every hour in [Start, End].
func (r BulkRange) Hours() []int {
	if r.End < r.Start {
		return nil
	}
	hours := make([]int, 0, r.End-r.Start+1)
	for h := r.Start; h <= r.End; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Refs returns the key triples the range touches for actor.
func (r BulkRange) Refs(actor Actor) []SlotRef {
	hours := r.Hours()
	refs := make([]SlotRef, len(hours))
	for i, h := range hours {
		refs[i] = SlotRef{Date: r.Date, Hour: h, UserID: actor.ID}
	}
	return refs
}

// Apply assigns actor to every hour of the range. Other users' entries in
// the same slots are left untouched.
func (r BulkRange) Apply(s Store, actor Actor) Store {
	for _, h := range r.Hours() {
		s = s.Assign(r.Date, h, actor.Assignment(r.Notes))
	}
	return s
}

// Remove unassigns actor from every hour of the range.
func (r BulkRange) Remove(s Store, actor Actor) Store {
	for _, h := range r.Hours() {
		s = s.Unassign(r.Date, h, actor.ID)
	}
	return s
}
