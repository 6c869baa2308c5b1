package value

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang-sql/civil"
	strftime "github.com/ncruces/go-strftime"
)

// spanThreshold is the duration above which a DateTime switches from
// absolute-instant display to relative-span display (spec.md §3: "100
// years").
const spanThreshold = 100 * 365 * 24 * time.Hour

// DateTime holds either an absolute instant or a span (duration); it
// switches its display mode once the span exceeds spanThreshold
// (spec.md §3). The instant mode is backed by civil.DateTime (a
// timezone-naive wall-clock reading, which is what a calculator's "this
// moment" means) and, past spanThreshold, the span mode renders through
// humanize.RelTime's coarse relative wording instead of as a raw
// duration.
type DateTime struct {
	IsSpan bool
	Instant civil.DateTime
	Span    time.Duration
}

func NewInstant(t time.Time) *DateTime {
	return &DateTime{Instant: civil.DateTimeOf(t)}
}

func NewSpan(d time.Duration) *DateTime {
	return &DateTime{IsSpan: true, Span: d}
}

func (d *DateTime) Kind() Kind { return KindDateTime }

func (d *DateTime) DeepCopy() Value {
	cp := *d
	return &cp
}

func (d *DateTime) Display() string {
	if d.IsSpan {
		if d.Span > spanThreshold {
			return humanize.RelTime(time.Time{}, time.Time{}.Add(d.Span), "", "")
		}
		return d.Span.String()
	}
	return d.Instant.String()
}

// Format renders the instant using a C-style strftime pattern, e.g. "%Y-%m-%d".
func (d *DateTime) Format(pattern string) (string, error) {
	t := d.Instant.In(time.UTC)
	return strftime.Format(pattern, t)
}

// AsInstant converts a civil.DateTime back to time.Time for arithmetic.
func (d *DateTime) AsInstant() time.Time {
	return d.Instant.In(time.UTC)
}

// AddSpan returns a new DateTime offset by dur (instant + span → instant).
func (d *DateTime) AddSpan(dur time.Duration) *DateTime {
	if d.IsSpan {
		return NewSpan(d.Span + dur)
	}
	return NewInstant(d.AsInstant().Add(dur))
}

// CompareDateTime orders two DateTime values: instants compare by wall
// clock, spans compare by duration, and a span is considered "greater"
// than any instant to keep the comparator's date/span buckets adjacent
// but distinguishable (spec.md §4.2 type-id ordering).
func CompareDateTime(a, b *DateTime) int {
	if a.IsSpan != b.IsSpan {
		if a.IsSpan {
			return 1
		}
		return -1
	}
	if a.IsSpan {
		switch {
		case a.Span < b.Span:
			return -1
		case a.Span > b.Span:
			return 1
		default:
			return 0
		}
	}
	at, bt := a.AsInstant(), b.AsInstant()
	switch {
	case at.Before(bt):
		return -1
	case at.After(bt):
		return 1
	default:
		return 0
	}
}
