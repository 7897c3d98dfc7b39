package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoFormatTimestamp(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"5":       "5",
		"45":      "45",
		"123":     "1:23",
		"1234":    "12:34",
		"12345":   "1:23:45",
		"123456":  "12:34:56",
		"1234567": "12:34:56",
		"1:2a3":   "1:23",
	}
	for in, want := range cases {
		assert.Equal(t, want, AutoFormatTimestamp(in), "input %q", in)
	}
}

func TestParseTimestamp(t *testing.T) {
	d, err := ParseTimestamp("45")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	d, err = ParseTimestamp("1:23")
	require.NoError(t, err)
	assert.Equal(t, 83*time.Second, d)

	d, err = ParseTimestamp("1:02:03")
	require.NoError(t, err)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, d)

	d, err = ParseTimestamp("99:59:59")
	require.NoError(t, err)
	assert.Equal(t, 99*time.Hour+59*time.Minute+59*time.Second, d)

	for _, bad := range []string{
		"", "1:60", "a:10", "1::2", "1:2:3:4", "-5",
		"100:00:00",
		"360000",
		"9999999999999",
		"2562047788015216:00:00",
		"99999999999999999999999",
	} {
		_, err := ParseTimestamp(bad)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "input %q", bad)
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "0:00", FormatTimestamp(0))
	assert.Equal(t, "1:23", FormatTimestamp(83*time.Second))
	assert.Equal(t, "1:02:03", FormatTimestamp(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "0:00", FormatTimestamp(-time.Second))
}

func TestParseVideoRange(t *testing.T) {
	r, err := ParseVideoRange("", "")
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = ParseVideoRange("0:30", "2:00")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, r.Start)
	assert.Equal(t, 2*time.Minute, r.End)

	_, err = ParseVideoRange("2:00", "0:30")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseVideoRange("1:00", "1:00")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseVideoRange("0", "9999999999999")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = ParseVideoRange("x", "1:00")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}
