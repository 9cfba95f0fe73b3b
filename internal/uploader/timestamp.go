package uploader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Timestamp is a duration as the card editor displays it: a colon-separated
// string of one to four fields. Four fields mean h:mm:ss:ff where the last
// field counts hundredths of a second; shorter forms drop fields from the
// left and carry no hundredths. The editor echoes back whatever granularity
// it chose, so a parsed value remembers its segment count and renders with
// the same one.
type Timestamp struct {
	Seconds  float64
	Segments int
}

// ParseTimestamp parses the editor's display string.
func ParseTimestamp(raw string) (Timestamp, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) > 4 {
		return Timestamp{}, fmt.Errorf("timestamp %q has %d fields, at most 4 supported", raw, len(parts))
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Timestamp{}, fmt.Errorf("timestamp %q has a non-numeric field: %w", raw, err)
		}
		if v < 0 {
			return Timestamp{}, fmt.Errorf("timestamp %q has a negative field", raw)
		}
		values[i] = v
	}

	total := 0.0
	last := len(values) - 1
	if len(values) == 4 {
		total += float64(values[last]) / 100
		last--
	}
	weight := 1.0
	for i := last; i >= 0; i-- {
		total += float64(values[i]) * weight
		weight *= 60
	}

	return Timestamp{Seconds: total, Segments: len(values)}, nil
}

// Place applies the card placement heuristic: long videos get the card one
// minute before the end, short ones at the midpoint. The 120-second
// boundary takes the subtraction branch.
func (t Timestamp) Place() Timestamp {
	s := t.Seconds
	if s >= 120 {
		s -= 60
	} else {
		s /= 2
	}
	return Timestamp{Seconds: s, Segments: t.Segments}
}

// String renders the value back into the editor's format, preserving the
// original segment count. Every field is zero-padded to two digits except
// the leftmost.
func (t Timestamp) String() string {
	secs := t.Seconds
	if secs < 0 {
		secs = 0
	}
	whole := int(secs)
	frames := int(math.Round((secs - float64(whole)) * 100))
	if frames >= 100 {
		whole += frames / 100
		frames %= 100
	}

	var fields []int
	switch t.Segments {
	case 4:
		fields = []int{whole / 3600, whole % 3600 / 60, whole % 60, frames}
	case 3:
		fields = []int{whole / 3600, whole % 3600 / 60, whole % 60}
	case 2:
		// The minutes field absorbs hours so the value round-trips.
		fields = []int{whole / 60, whole % 60}
	default:
		fields = []int{whole}
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		if i == 0 {
			parts[i] = strconv.Itoa(f)
		} else {
			parts[i] = fmt.Sprintf("%02d", f)
		}
	}
	return strings.Join(parts, ":")
}
