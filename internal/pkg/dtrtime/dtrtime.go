// Package dtrtime centralizes conversion between stored UTC instants and the
// organization's fixed local offset. Instants are always stored in UTC; the
// offset is applied only when presenting or when deriving a calendar date key.
package dtrtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "03:04:05 PM"
)

// Zone is a fixed UTC offset. The zero value is UTC.
type Zone struct {
	offset time.Duration
	loc    *time.Location
}

// ParseOffset parses offsets such as "+08:00", "-0530", "+8" or "Z".
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" || strings.EqualFold(s, "UTC") {
		return 0, nil
	}

	sign := time.Duration(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	default:
		return 0, fmt.Errorf("offset %q must start with + or -", s)
	}

	hoursPart, minutesPart := s, "0"
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hoursPart, minutesPart = s[:i], s[i+1:]
	} else if len(s) == 4 {
		hoursPart, minutesPart = s[:2], s[2:]
	}

	hours, err := strconv.Atoi(hoursPart)
	if err != nil || hours < 0 || hours > 14 {
		return 0, fmt.Errorf("invalid offset hours %q", hoursPart)
	}
	minutes, err := strconv.Atoi(minutesPart)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid offset minutes %q", minutesPart)
	}

	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}

func NewZone(offset time.Duration) Zone {
	return Zone{
		offset: offset,
		loc:    time.FixedZone(formatOffset(offset), int(offset/time.Second)),
	}
}

// MustZone builds a Zone from an offset string and panics if it is invalid.
func MustZone(offset string) Zone {
	d, err := ParseOffset(offset)
	if err != nil {
		panic(err)
	}
	return NewZone(d)
}

func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

// ToLocal returns the same instant expressed in the organization's offset.
func (z Zone) ToLocal(t time.Time) time.Time {
	return t.In(z.Location())
}

// FromLocal interprets the wall clock of local as organization time and
// returns the UTC instant. FromLocal(ToLocal(t)) equals t.
func (z Zone) FromLocal(local time.Time) time.Time {
	wall := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
	return wall.Add(-z.offset)
}

// DateKey returns the organization calendar date containing t, as midnight UTC.
func (z Zone) DateKey(t time.Time) time.Time {
	local := z.ToLocal(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday date key of the week containing date.
func WeekStart(date time.Time) time.Time {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	shift := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -shift)
}

// FormatTime renders t as organization wall-clock time.
func (z Zone) FormatTime(t time.Time) string {
	return z.ToLocal(t).Format(DisplayLayout)
}

// FormatTimePtr is FormatTime for nullable instants.
func (z Zone) FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := z.FormatTime(*t)
	return &s
}

// ParseDate parses a YYYY-MM-DD date key.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

func formatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, int(d/time.Hour), int(d%time.Hour/time.Minute))
}
