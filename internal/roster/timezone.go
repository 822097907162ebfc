package roster

import (
	"fmt"
	"time"
	_ "time/tzdata" // reference zones must resolve on hosts without zoneinfo
)

// Projector maps hours defined in a fixed reference zone (for example the
// daily reset times) onto the viewer's local clock.
type Projector struct {
	Reference *time.Location
	Viewer    *time.Location
	Hours     []int // reset hours on the reference clock
}

// NewProjector loads the reference zone by name. A nil viewer means the
// local zone. Hours outside 0-23 are rejected.
func NewProjector(referenceZone string, viewer *time.Location, hours ...int) (*Projector, error) {
	ref, err := time.LoadLocation(referenceZone)
	if err != nil {
		return nil, fmt.Errorf("loading reference zone %q: %w", referenceZone, err)
	}
	for _, h := range hours {
		if !ValidHour(h) {
			return nil, &ValidationError{Field: "reset hour", Value: fmt.Sprint(h), Err: ErrInvalidHour}
		}
	}
	if viewer == nil {
		viewer = time.Local
	}
	return &Projector{Reference: ref, Viewer: viewer, Hours: hours}, nil
}

// InDaylightSaving reports whether the reference zone is on its summer
// offset at now. The zone's offsets on 1 January and 1 July of the same
// year bound the two possible values.
func (p *Projector) InDaylightSaving(now time.Time) bool {
	winter, summer := p.seasonOffsets(now.In(p.Reference).Year())
	if winter == summer {
		return false
	}
	_, current := now.In(p.Reference).Zone()
	return current == max(winter, summer)
}

// ReferenceOffset returns the reference zone's UTC offset at now.
func (p *Projector) ReferenceOffset(now time.Time) time.Duration {
	winter, summer := p.seasonOffsets(now.In(p.Reference).Year())
	standard := min(winter, summer)
	if p.InDaylightSaving(now) {
		return time.Duration(max(winter, summer)) * time.Second
	}
	return time.Duration(standard) * time.Second
}

// ViewerOffset returns the viewer's UTC offset at now.
func (p *Projector) ViewerOffset(now time.Time) time.Duration {
	_, off := now.In(p.Viewer).Zone()
	return time.Duration(off) * time.Second
}

// ProjectHour converts a reference-zone hour to the viewer's local hour in
// [0,23]. Viewers less than an hour away from the reference zone are treated
// as co-located and see the hour unchanged.
func (p *Projector) ProjectHour(refHour int, now time.Time) int {
	ref := p.ReferenceOffset(now)
	viewer := p.ViewerOffset(now)

	diff := viewer - ref
	if diff < 0 {
		diff = -diff
	}
	if diff < time.Hour {
		return refHour
	}

	minutes := refHour*60 + int((viewer-ref)/time.Minute)
	hour := minutes / 60
	if minutes%60 < 0 {
		hour--
	}
	return ((hour % HoursPerDay) + HoursPerDay) % HoursPerDay
}

// Markers projects every configured reset hour at now, in configured order.
func (p *Projector) Markers(now time.Time) []int {
	out := make([]int, len(p.Hours))
	for i, h := range p.Hours {
		out[i] = p.ProjectHour(h, now)
	}
	return out
}

// IsMarker reports whether the local hour carries a reset marker at now.
func (p *Projector) IsMarker(localHour int, now time.Time) bool {
	for _, h := range p.Markers(now) {
		if h == localHour {
			return true
		}
	}
	return false
}

func (p *Projector) seasonOffsets(year int) (winter, summer int) {
	_, winter = time.Date(year, time.January, 1, 12, 0, 0, 0, p.Reference).Zone()
	_, summer = time.Date(year, time.July, 1, 12, 0, 0, 0, p.Reference).Zone()
	return winter, summer
}
