package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/roster"
)

func TestParseBulkInput(t *testing.T) {
	now := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	cursor := roster.DateKey("2024-06-04")

	tests := []struct {
		name    string
		input   string
		want    bulkRequest
		wantErr error
	}{
		{
			name:  "cursor day",
			input: "9 17",
			want:  bulkRequest{Date: "2024-06-04", Start: "9", End: "17"},
		},
		{
			name:  "notes keep spaces",
			input: "9 12 front  desk",
			want:  bulkRequest{Date: "2024-06-04", Start: "9", End: "12", Notes: "front desk"},
		},
		{
			name:  "explicit date",
			input: "2024-06-07 8 10 radio",
			want:  bulkRequest{Date: "2024-06-07", Start: "8", End: "10", Notes: "radio"},
		},
		{
			name:  "relative date",
			input: "tomorrow 0 3",
			want:  bulkRequest{Date: "2024-06-06", Start: "0", End: "3"},
		},
		{
			name:  "remove ignores notes",
			input: "- 9 10 ignored",
			want:  bulkRequest{Remove: true, Date: "2024-06-04", Start: "9", End: "10"},
		},
		{
			name:  "inverted range is left to the roster",
			input: "17 9",
			want:  bulkRequest{Date: "2024-06-04", Start: "17", End: "9"},
		},
		{name: "empty", input: "", wantErr: errBulkUsage},
		{name: "only dash", input: "-", wantErr: errBulkUsage},
		{name: "missing end", input: "9", wantErr: errBulkUsage},
		{name: "date without hours", input: "today", wantErr: errBulkUsage},
		{name: "bad date", input: "someday 9 10", wantErr: dateutil.ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBulkInput(tt.input, cursor, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCellLabel(t *testing.T) {
	tests := []struct {
		name string
		slot []roster.Assignment
		want string
	}{
		{"empty", nil, "·"},
		{"self first", []roster.Assignment{{UserID: "bob", UserName: "Bob"}, {UserID: "alice"}}, "me,Bob"},
		{"falls back to id", []roster.Assignment{{UserID: "carol"}}, "carol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellLabel(tt.slot, "alice"); got != tt.want {
				t.Errorf("cellLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFit(t *testing.T) {
	if got := fit("Bob", 6); got != " Bob  " {
		t.Errorf("fit pad = %q", got)
	}
	if got := fit("Bartholomew", 6); got != " Bar… " {
		t.Errorf("fit truncate = %q", got)
	}
}
