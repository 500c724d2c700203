// Package timecode converts clip timestamps into seconds.
//
// Accepted forms are H:MM:SS, MM:SS and SS, where every part is a decimal
// number. A range is given either as a two-element list or as a single
// comma-joined string, optionally wrapped in brackets.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat is returned for any timestamp or range that cannot be parsed.
	ErrInvalidFormat = errors.New("invalid timestamp format")

	// ErrInvalidRange is returned when start is not strictly before end.
	// It wraps ErrInvalidFormat so callers can test for either.
	ErrInvalidRange = fmt.Errorf("%w: start must be before end", ErrInvalidFormat)
)

// Range is a parsed start/end pair in seconds.
type Range struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (r Range) Duration() float64 {
	return r.End - r.Start
}

// String renders the range as it appears in clip file names.
func (r Range) String() string {
	return FormatSeconds(r.Start) + "s-" + FormatSeconds(r.End) + "s"
}

// Parse converts a single timestamp to seconds.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty timestamp", ErrInvalidFormat)
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q has %d parts, expected at most 3", ErrInvalidFormat, s, len(parts))
	}

	total := 0.0
	multiplier := 1.0
	for i := len(parts) - 1; i >= 0; i-- {
		part := strings.TrimSpace(parts[i])
		val, err := strconv.ParseFloat(part, 64)
		if err != nil || part == "" {
			return 0, fmt.Errorf("%w: %q is not numeric in %q", ErrInvalidFormat, part, s)
		}
		if val < 0 || math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("%w: %q is out of range in %q", ErrInvalidFormat, part, s)
		}
		total += val * multiplier
		multiplier *= 60
	}

	return total, nil
}

// ParseList parses the two-element JSON form, e.g. ["00:00:10", "00:00:30"].
func ParseList(values []string) (Range, error) {
	if len(values) != 2 {
		return Range{}, fmt.Errorf("%w: expected exactly 2 timestamps [start, end], got %d", ErrInvalidFormat, len(values))
	}
	return newRange(values[0], values[1])
}

// ParsePair parses the comma-joined form, e.g. "00:00:10,00:00:30".
// Surrounding brackets and quotes around each element are tolerated.
func ParsePair(s string) (Range, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return Range{}, fmt.Errorf("%w: empty time range", ErrInvalidFormat)
	}

	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return ParseList(parts)
}

func newRange(startStr, endStr string) (Range, error) {
	start, err := Parse(startStr)
	if err != nil {
		return Range{}, fmt.Errorf("start: %w", err)
	}
	end, err := Parse(endStr)
	if err != nil {
		return Range{}, fmt.Errorf("end: %w", err)
	}
	if start >= end {
		return Range{}, fmt.Errorf("%w (start=%s, end=%s)", ErrInvalidRange, FormatSeconds(start), FormatSeconds(end))
	}
	return Range{Start: start, End: end}, nil
}

// FormatSeconds renders seconds with at least one decimal place: 10 -> "10.0", 1.5 -> "1.5".
func FormatSeconds(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
