package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"sunday", time.Sunday, false},
		{"Monday", time.Monday, false},
		{" SATURDAY ", time.Saturday, false},
		{"funday", time.Sunday, true},
		{"", time.Sunday, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWeekday) {
					t.Fatalf("got error %v, want %v", err, ErrInvalidWeekday)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		first time.Weekday
		want  time.Time
	}{
		{
			name:  "sunday start from monday",
			input: time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC), // Monday
			first: time.Sunday,
			want:  time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "sunday start from sunday",
			input: time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
			first: time.Sunday,
			want:  time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "sunday start from saturday",
			input: time.Date(2024, 6, 8, 23, 59, 0, 0, time.UTC),
			first: time.Sunday,
			want:  time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "monday start from sunday",
			input: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC),
			first: time.Monday,
			want:  time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "across year boundary",
			input: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), // Wednesday
			first: time.Sunday,
			want:  time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.input, tt.first)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateToDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123, time.UTC)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	got := TruncateToDay(input)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 15, 1, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC)
	c := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("expected same day")
	}
	if SameDay(b, c) {
		t.Error("expected different days")
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Wednesday, January 15, 2025
	ref := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"TOMORROW", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)},
		{"next-week", time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)},
		{"last-week", time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"friday", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)},
		{"next-monday", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{"2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseRelativeDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRelativeDate_Errors(t *testing.T) {
	ref := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	for _, input := range []string{"someday", "next-funday", "15/01/2025", "2025-13-01"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseRelativeDate(input, ref)
			if !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
			}
		})
	}
}
