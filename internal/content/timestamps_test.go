package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"rfc3339 offset", "2021-06-13T05:00:00-04:00", time.Date(2021, 6, 13, 9, 0, 0, 0, time.UTC)},
		{"rfc3339 nano", "2021-06-13T05:00:00.5Z", time.Date(2021, 6, 13, 5, 0, 0, 500000000, time.UTC)},
		{"no zone", "2021-06-13T05:00:00", time.Date(2021, 6, 13, 5, 0, 0, 0, time.UTC)},
		{"space separated", "2021-06-13 05:00:00", time.Date(2021, 6, 13, 5, 0, 0, 0, time.UTC)},
		{"date only", " 2020-01-01 ", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"time value", time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"epoch int", 0, time.Unix(0, 0)},
		{"epoch int64", int64(86400), time.Unix(86400, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			require.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []any{"13/06/2021", "", 1.5, true, nil} {
		_, err := ParseTimestamp(in)
		require.ErrorIs(t, err, ErrInvalidTimestamp, "input %v", in)
	}
}

func TestResolveHeaderTimestamps_FallbackOrder(t *testing.T) {
	def := time.Date(2021, 6, 13, 9, 0, 0, 0, time.UTC)

	ts, err := resolveHeaderTimestamps(map[string]any{}, def)
	require.NoError(t, err)
	require.Equal(t, Timestamps{FirstSeen: def, LastUpdated: def}, ts)

	ts, err = resolveHeaderTimestamps(map[string]any{KeyFirstSeen: "2020-02-02"}, def)
	require.NoError(t, err)
	require.True(t, ts.LastUpdated.Equal(ts.FirstSeen))
	require.False(t, ts.FirstSeen.Equal(def))

	ts, err = resolveHeaderTimestamps(map[string]any{KeyFirstSeen: nil, KeyLastUpdated: nil}, def)
	require.NoError(t, err)
	require.Equal(t, def, ts.LastUpdated)
}

func TestMustParseTimestamp_Panics(t *testing.T) {
	require.Panics(t, func() { MustParseTimestamp("not a date") })
}
