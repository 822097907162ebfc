// Package roster contains the duty-roster domain: slots, assignments, the
// visible week and the pure operations over them.
package roster

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/javiermolinar/rota/internal/dateutil"
)

// HoursPerDay is the number of hour slots in a calendar day.
const HoursPerDay = 24

// Validation errors.
var (
	ErrInvalidHour   = errors.New("hour must be an integer between 0 and 23")
	ErrInvalidRange  = errors.New("end hour must not be before start hour")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrMissingUserID = errors.New("user id is required")
)

// DateKey identifies a calendar day without a time component ("2006-01-02").
type DateKey string

// DateKeyOf returns the key of the calendar day t falls on.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(dateutil.DateLayout))
}

// ParseDateKey validates s and returns it as a DateKey.
func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse(dateutil.DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return DateKey(s), nil
}

// Time returns midnight of the key's day in loc.
func (k DateKey) Time(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateutil.DateLayout, string(k), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (k DateKey) String() string { return string(k) }

// ValidHour reports whether h is on the canonical 0-23 clock.
func ValidHour(h int) bool {
	return h >= 0 && h < HoursPerDay
}

// ParseHour parses a canonical hour from user input.
func ParseHour(s string) (int, error) {
	h, err := strconv.Atoi(s)
	if err != nil || !ValidHour(h) {
		return 0, ErrInvalidHour
	}
	return h, nil
}

// Assignment is one person's presence in one slot.
type Assignment struct {
	UserID   string
	UserName string
	Notes    string
}

// SlotRef is the persistence key of a single assignment.
type SlotRef struct {
	Date   DateKey
	Hour   int
	UserID string
}

func (r SlotRef) String() string {
	return fmt.Sprintf("%s %02d:00 (%s)", r.Date, r.Hour, r.UserID)
}

// Record is a flat persisted assignment row.
type Record struct {
	Date     DateKey
	Hour     int
	UserID   string
	UserName string
	Notes    string
}

// Ref returns the record's key triple.
func (r Record) Ref() SlotRef {
	return SlotRef{Date: r.Date, Hour: r.Hour, UserID: r.UserID}
}

// Assignment returns the in-slot view of the record.
func (r Record) Assignment() Assignment {
	return Assignment{UserID: r.UserID, UserName: r.UserName, Notes: r.Notes}
}

// Actor is the user performing edits.
type Actor struct {
	ID          string
	DisplayName string
}

// Assignment returns a fresh assignment for the actor.
func (a Actor) Assignment(notes string) Assignment {
	return Assignment{UserID: a.ID, UserName: a.DisplayName, Notes: notes}
}
