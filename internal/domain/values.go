package domain

import "strconv"

// Episodes is an episode count that may be unknown.
// A known count of 0 is distinct from an unknown count.
type Episodes struct {
	n     int
	known bool
}

// UnknownEpisodes returns an Episodes with no value.
func UnknownEpisodes() Episodes { return Episodes{} }

// KnownEpisodes returns an Episodes holding n.
func KnownEpisodes(n int) Episodes { return Episodes{n: n, known: true} }

// EpisodesFromPtr maps nil to unknown and any other value to known.
func EpisodesFromPtr(p *int) Episodes {
	if p == nil {
		return UnknownEpisodes()
	}
	return KnownEpisodes(*p)
}

// Value returns the count and whether it is known.
func (e Episodes) Value() (int, bool) { return e.n, e.known }

// Ptr returns nil for unknown, otherwise a pointer to the count.
func (e Episodes) Ptr() *int {
	if !e.known {
		return nil
	}
	n := e.n
	return &n
}

func (e Episodes) String() string {
	if !e.known {
		return "unknown"
	}
	return strconv.Itoa(e.n)
}

// Date is a calendar date in YYYY-MM-DD form, or unknown.
type Date struct {
	value string
}

// DateFromTimestamp keeps the date-only prefix of an ISO-8601 timestamp.
// Nil or empty input yields an unknown Date.
func DateFromTimestamp(ts *string) Date {
	if ts == nil || *ts == "" {
		return Date{}
	}
	s := *ts
	if len(s) > 10 {
		s = s[:10]
	}
	return Date{value: s}
}

// Known reports whether the date has a value.
func (d Date) Known() bool { return d.value != "" }

// Ptr returns nil for unknown, otherwise a pointer to the date string.
func (d Date) Ptr() *string {
	if d.value == "" {
		return nil
	}
	v := d.value
	return &v
}

func (d Date) String() string {
	if d.value == "" {
		return "unknown"
	}
	return d.value
}
