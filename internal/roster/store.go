package roster

import (
	"slices"
	"sort"
)

// Store holds every assignment of the visible week: day -> hour -> slot.
//
// A Store is an immutable value. Assign and Unassign return a new Store and
// share untouched days with the receiver. Empty slots and empty days are
// never represented. The zero value is an empty store.
type Store struct {
	days map[DateKey]map[int][]Assignment
}

// NewStore returns an empty store.
func NewStore() Store {
	return Store{}
}

// FromRecords builds a store from persisted records. When keys is non-empty,
// records for any other day are dropped so stale data cannot leak in.
func FromRecords(records []Record, keys ...DateKey) Store {
	allowed := make(map[DateKey]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}

	s := NewStore()
	for _, r := range records {
		if len(allowed) > 0 && !allowed[r.Date] {
			continue
		}
		s = s.Assign(r.Date, r.Hour, r.Assignment())
	}
	return s
}

// Assign places a in the slot. An existing entry for the same user is
// replaced in place; otherwise a is appended.
func (s Store) Assign(date DateKey, hour int, a Assignment) Store {
	if !ValidHour(hour) || a.UserID == "" {
		return s
	}

	current := s.days[date][hour]
	next := make([]Assignment, len(current), len(current)+1)
	copy(next, current)

	if i := indexOf(next, a.UserID); i >= 0 {
		next[i] = a
	} else {
		next = append(next, a)
	}
	return s.withSlot(date, hour, next)
}

// Unassign removes userID from the slot, pruning the slot and day when they
// become empty.
func (s Store) Unassign(date DateKey, hour int, userID string) Store {
	if !ValidHour(hour) {
		return s
	}
	current := s.days[date][hour]
	i := indexOf(current, userID)
	if i < 0 {
		return s
	}

	next := make([]Assignment, 0, len(current)-1)
	next = append(next, current[:i]...)
	next = append(next, current[i+1:]...)
	return s.withSlot(date, hour, next)
}

// Has reports whether userID is assigned to the slot.
func (s Store) Has(date DateKey, hour int, userID string) bool {
	return indexOf(s.days[date][hour], userID) >= 0
}

// Lookup returns userID's assignment in the slot.
func (s Store) Lookup(date DateKey, hour int, userID string) (Assignment, bool) {
	slot := s.days[date][hour]
	if i := indexOf(slot, userID); i >= 0 {
		return slot[i], true
	}
	return Assignment{}, false
}

// Slot returns a copy of the slot's assignments in arrival order.
func (s Store) Slot(date DateKey, hour int) []Assignment {
	return slices.Clone(s.days[date][hour])
}

// Dates returns the days that have at least one assignment, sorted.
func (s Store) Dates() []DateKey {
	keys := make([]DateKey, 0, len(s.days))
	for k := range s.days {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Hours returns the occupied hours of date, sorted.
func (s Store) Hours(date DateKey) []int {
	day := s.days[date]
	hours := make([]int, 0, len(day))
	for h := range day {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// Len returns the total number of assignments.
func (s Store) Len() int {
	n := 0
	for _, day := range s.days {
		for _, slot := range day {
			n += len(slot)
		}
	}
	return n
}

// Records flattens the store, ordered by date, hour and arrival.
func (s Store) Records() []Record {
	var out []Record
	for _, date := range s.Dates() {
		for _, hour := range s.Hours(date) {
			for _, a := range s.days[date][hour] {
				out = append(out, Record{
					Date:     date,
					Hour:     hour,
					UserID:   a.UserID,
					UserName: a.UserName,
					Notes:    a.Notes,
				})
			}
		}
	}
	return out
}

// withSlot returns a copy of s with the slot replaced. Untouched days are
// shared with s.
func (s Store) withSlot(date DateKey, hour int, slot []Assignment) Store {
	days := make(map[DateKey]map[int][]Assignment, len(s.days)+1)
	for k, v := range s.days {
		days[k] = v
	}

	day := make(map[int][]Assignment, len(s.days[date])+1)
	for h, v := range s.days[date] {
		day[h] = v
	}

	if len(slot) == 0 {
		delete(day, hour)
	} else {
		day[hour] = slot
	}

	if len(day) == 0 {
		delete(days, date)
	} else {
		days[date] = day
	}
	return Store{days: days}
}

func indexOf(slot []Assignment, userID string) int {
	for i, a := range slot {
		if a.UserID == userID {
			return i
		}
	}
	return -1
}
