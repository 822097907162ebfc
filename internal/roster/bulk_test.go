package roster

import (
	"errors"
	"strings"
	"testing"
)

func TestParseBulkRange(t *testing.T) {
	r, err := ParseBulkRange("2024-06-03", "9", " 17 ", "front desk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hours := r.Hours()
	if len(hours) != 9 {
		t.Fatalf("Hours() = %v, want 9 hours", hours)
	}
	if hours[0] != 9 || hours[len(hours)-1] != 17 {
		t.Errorf("Hours() = %v, want 9..17", hours)
	}
	if r.Notes != "front desk" {
		t.Errorf("Notes = %q", r.Notes)
	}
}

func TestParseBulkRange_NotesLimitCountsRunes(t *testing.T) {
	notes := strings.Repeat("é", MaxNotesLength)
	r, err := ParseBulkRange("2024-06-03", "9", "10", notes)
	if err != nil {
		t.Fatalf("notes at the limit rejected: %v", err)
	}
	if r.Notes != notes {
		t.Error("notes altered")
	}
}

func TestParseBulkRange_SingleHour(t *testing.T) {
	r, err := ParseBulkRange("2024-06-03", "23", "23", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.Hours(); len(got) != 1 || got[0] != 23 {
		t.Errorf("Hours() = %v, want [23]", got)
	}
}

func TestParseBulkRange_Errors(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		start     string
		end       string
		notes     string
		wantErr   error
		wantField string
	}{
		{"end before start", "2024-06-03", "17", "9", "", ErrInvalidRange, "end"},
		{"overnight", "2024-06-03", "22", "2", "", ErrInvalidRange, "end"},
		{"non numeric start", "2024-06-03", "nine", "17", "", ErrInvalidHour, "start"},
		{"non numeric end", "2024-06-03", "9", "5pm", "", ErrInvalidHour, "end"},
		{"hour out of range", "2024-06-03", "9", "24", "", ErrInvalidHour, "end"},
		{"negative hour", "2024-06-03", "-1", "4", "", ErrInvalidHour, "start"},
		{"bad date", "06/03/2024", "9", "17", "", ErrInvalidDate, "date"},
		{"notes too long", "2024-06-03", "9", "10", strings.Repeat("x", MaxNotesLength+1), ErrNotesTooLong, "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBulkRange(tt.date, tt.start, tt.end, tt.notes)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestBulkRange_Apply(t *testing.T) {
	actor := Actor{ID: "alice", DisplayName: "Alice"}
	bob := Assignment{UserID: "bob", UserName: "Bob", Notes: "keep"}

	s := NewStore().
		Assign(testDate, 10, bob).
		Assign(testDate, 11, Assignment{UserID: "alice", Notes: "old"})

	r, err := ParseBulkRange(string(testDate), "9", "17", "shift")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s = r.Apply(s, actor)

	for h := 9; h <= 17; h++ {
		a, ok := s.Lookup(testDate, h, "alice")
		if !ok {
			t.Fatalf("hour %d missing alice", h)
		}
		if a.Notes != "shift" {
			t.Errorf("hour %d notes = %q, want shift", h, a.Notes)
		}
	}
	if got, _ := s.Lookup(testDate, 10, "bob"); got != bob {
		t.Errorf("bob changed: %+v", got)
	}
	if s.Has(testDate, 8, "alice") || s.Has(testDate, 18, "alice") {
		t.Error("range leaked outside [9,17]")
	}

	refs := r.Refs(actor)
	if len(refs) != 9 {
		t.Errorf("Refs() = %d, want 9", len(refs))
	}

	s = r.Remove(s, actor)
	if s.Len() != 1 || !s.Has(testDate, 10, "bob") {
		t.Errorf("Remove left %v", s.Records())
	}
}
