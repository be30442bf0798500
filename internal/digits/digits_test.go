package digits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/tock/internal/timefmt"
)

func typeDigits(buf string, width int, keys string) string {
	for _, r := range keys {
		buf = Append(buf, r, width)
	}
	return buf
}

func TestWidth(t *testing.T) {
	assert.Equal(t, 6, Width(false))
	assert.Equal(t, 4, Width(true))
	assert.Equal(t, "000000", Empty(DurationWidth))
	assert.Equal(t, "0000", Empty(ClockWidth))
}

func TestAppendThreeHundred(t *testing.T) {
	buf := typeDigits("", DurationWidth, "300")
	require.Equal(t, "000300", buf)
	assert.Equal(t, 180, Seconds(buf))
}

func TestBackspaceShiftsRight(t *testing.T) {
	buf := Backspace("000300", DurationWidth)
	require.Equal(t, "000030", buf)
	assert.Equal(t, 30, Seconds(buf))

	assert.Equal(t, "000000", Backspace("", DurationWidth))
	assert.Equal(t, "000000", Backspace("000000", DurationWidth))
}

func TestAppendSlidesWindow(t *testing.T) {
	buf := typeDigits(Empty(DurationWidth), DurationWidth, "1234567")
	assert.Equal(t, "234567", buf)
}

func TestAppendIgnoresNonDigits(t *testing.T) {
	assert.Equal(t, "000012", Append("000012", 'x', DurationWidth))
}

func TestSecondsClamps(t *testing.T) {
	assert.Equal(t, timefmt.MaxSeconds, Seconds("999999"))
	assert.Equal(t, timefmt.MaxSeconds, Seconds("020000"))
	assert.Equal(t, 3600+1800+15, Seconds("013015"))
	assert.Equal(t, 99, Seconds("000099"))
	assert.Equal(t, 0, Seconds(""))
}

func TestMinutes(t *testing.T) {
	buf := typeDigits(Empty(ClockWidth), ClockWidth, "130")
	require.Equal(t, "0130", buf)
	assert.Equal(t, 90, Minutes(buf))
	assert.Equal(t, timefmt.MaxClockMinutes, Minutes("2399"))
	assert.Equal(t, timefmt.MaxClockMinutes, Minutes("9999"))
	assert.Equal(t, 0, Minutes("0000"))
}

func TestEveryBufferIsValid(t *testing.T) {
	buf := Empty(DurationWidth)
	for _, r := range "98765432109876543210" {
		buf = Append(buf, r, DurationWidth)
		s := Seconds(buf)
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, timefmt.MaxSeconds)
		assert.Len(t, buf, DurationWidth)
	}
}
