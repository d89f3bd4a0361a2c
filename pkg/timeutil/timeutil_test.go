package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTimestamp(t *testing.T) {
	ts, err := ToTimestamp(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)

	ts, err = ToTimestamp(1_700_000_000)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), ts)

	ts, err = ToTimestamp(MaxTimestamp)
	require.NoError(t, err)
	assert.Equal(t, MaxTimestamp, ts)

	_, err = ToTimestamp(-1)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = ToTimestamp(MaxTimestamp + 1)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestNowMicros(t *testing.T) {
	before := uint64(time.Now().UnixMicro())
	got := NowMicros()
	after := uint64(time.Now().UnixMicro())

	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}
