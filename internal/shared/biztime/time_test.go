package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { _ = Init("") })

	require.NoError(t, Init("Europe/Berlin"))
	assert.Equal(t, "Europe/Berlin", Location().String())

	assert.Error(t, Init("Mars/Olympus"))
	assert.Equal(t, "Europe/Berlin", Location().String())
}

func TestFormatDisplay(t *testing.T) {
	require.NoError(t, Init("UTC"))
	assert.Equal(t, "-", FormatDisplay(time.Time{}))
	assert.Equal(t, "2024-03-01 09:30", FormatDisplay(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)))
}

func TestUnixMilliRoundTrip(t *testing.T) {
	assert.Equal(t, int64(0), UnixMilli(nil))
	assert.Nil(t, FromUnixMilli(0))

	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	got := FromUnixMilli(UnixMilli(&ts))
	require.NotNil(t, got)
	assert.True(t, ts.Equal(*got))
}
