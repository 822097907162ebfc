package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/roster"
)

var errBulkUsage = errors.New("usage: [-] [date] start end [notes...]")

// bulkRequest is a parsed bulk prompt line. Hours stay textual so the
// roster package reports range errors uniformly.
type bulkRequest struct {
	Remove bool
	Date   string
	Start  string
	End    string
	Notes  string
}

// parseBulkInput parses "[-] [date] start end [notes...]". Without a date
// the cursor's day is used; dates accept the relative forms understood by
// dateutil.ParseRelativeDate.
func parseBulkInput(input string, cursorDay roster.DateKey, now time.Time) (bulkRequest, error) {
	fields := strings.Fields(input)
	var req bulkRequest

	if len(fields) > 0 && fields[0] == "-" {
		req.Remove = true
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return bulkRequest{}, errBulkUsage
	}

	req.Date = cursorDay.String()
	if !isNumber(fields[0]) {
		d, err := dateutil.ParseRelativeDate(fields[0], now)
		if err != nil {
			return bulkRequest{}, err
		}
		req.Date = roster.DateKeyOf(d).String()
		fields = fields[1:]
	}
	if len(fields) < 2 {
		return bulkRequest{}, errBulkUsage
	}

	req.Start, req.End = fields[0], fields[1]
	if !req.Remove {
		req.Notes = strings.Join(fields[2:], " ")
	}
	return req, nil
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
