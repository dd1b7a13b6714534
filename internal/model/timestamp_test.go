package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampAcceptsZonelessWire(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-08-30T09:15:00"`), &ts))
	assert.Equal(t, time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2026-08-30T09:15:00.5"`), &ts))
	assert.Equal(t, 500*time.Millisecond, time.Duration(ts.Nanosecond()))

	require.NoError(t, json.Unmarshal([]byte(`"2026-08-30T09:15:00+07:00"`), &ts))
	assert.False(t, ts.IsZero())
}

func TestTimestampNullAndEmpty(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestampScan(t *testing.T) {
	var ts Timestamp
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, ts.Scan(now))
	assert.Equal(t, now, ts.Time)

	require.NoError(t, ts.Scan("2026-08-30 12:00:00"))
	assert.Equal(t, now, ts.Time)

	assert.Error(t, ts.Scan(42))
}
