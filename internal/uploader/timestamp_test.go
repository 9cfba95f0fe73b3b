package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		seconds  float64
		segments int
		wantErr  bool
	}{
		{
			name:     "four fields with hundredths",
			raw:      "1:23:45:67",
			seconds:  5025.67,
			segments: 4,
		},
		{
			name:     "three fields",
			raw:      "1:02:03",
			seconds:  3723,
			segments: 3,
		},
		{
			name:     "two fields are minutes and seconds",
			raw:      "45:30",
			seconds:  2730,
			segments: 2,
		},
		{
			name:     "single field",
			raw:      "59",
			seconds:  59,
			segments: 1,
		},
		{
			name:     "surrounding whitespace",
			raw:      " 10:00 ",
			seconds:  600,
			segments: 2,
		},
		{
			name:    "too many fields",
			raw:     "1:2:3:4:5",
			wantErr: true,
		},
		{
			name:    "non-numeric field",
			raw:     "1:xx",
			wantErr: true,
		},
		{
			name:    "negative field",
			raw:     "-1:30",
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.seconds, ts.Seconds, 0.001)
			assert.Equal(t, tt.segments, ts.Segments)
		})
	}
}

func TestTimestampPlace(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    float64
	}{
		{name: "long video backs off one minute", seconds: 2730, want: 2670},
		{name: "boundary takes the subtraction branch", seconds: 120, want: 60},
		{name: "short video lands at the midpoint", seconds: 119, want: 59.5},
		{name: "very short video", seconds: 10, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Timestamp{Seconds: tt.seconds, Segments: 2}.Place()
			assert.InDelta(t, tt.want, got.Seconds, 0.001)
			assert.Equal(t, 2, got.Segments)
		})
	}
}

func TestTimestampString(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		segments int
		want     string
	}{
		{
			name:     "two segments keep minutes and seconds",
			seconds:  2670,
			segments: 2,
			want:     "44:30",
		},
		{
			name:     "minutes absorb hours in the two segment form",
			seconds:  3723,
			segments: 2,
			want:     "62:03",
		},
		{
			name:     "three segments",
			seconds:  3723,
			segments: 3,
			want:     "1:02:03",
		},
		{
			name:     "four segments carry hundredths",
			seconds:  5010.67,
			segments: 4,
			want:     "1:23:30:67",
		},
		{
			name:     "hundredths round up and carry",
			seconds:  59.999,
			segments: 4,
			want:     "0:01:00:00",
		},
		{
			name:     "single segment",
			seconds:  59.5,
			segments: 1,
			want:     "59",
		},
		{
			name:     "negative clamps to zero",
			seconds:  -3,
			segments: 2,
			want:     "0:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Timestamp{Seconds: tt.seconds, Segments: tt.segments}.String()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	// Parsing a rendered value must reproduce the same seconds and render
	// back to the same string.
	for _, raw := range []string{"45:30", "1:02:03", "1:23:45:67", "90", "0:00"} {
		ts, err := ParseTimestamp(raw)
		assert.NoError(t, err)
		again, err := ParseTimestamp(ts.String())
		assert.NoError(t, err)
		assert.InDelta(t, ts.Seconds, again.Seconds, 0.001, "round trip for %q", raw)
		assert.Equal(t, raw, again.String())
	}
}

func TestPlacedEndToEnd(t *testing.T) {
	ts, err := ParseTimestamp("45:30")
	assert.NoError(t, err)
	assert.Equal(t, "44:30", ts.Place().String())

	ts, err = ParseTimestamp("1:23:45:67")
	assert.NoError(t, err)
	assert.Equal(t, "1:22:45:67", ts.Place().String())
}
