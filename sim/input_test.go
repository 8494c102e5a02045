package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventNamesRoundTrip(t *testing.T) {
	for e := RotateLeft; e <= Quit; e++ {
		got, ok := ParseEvent(e.String())
		assert.True(t, ok, e.String())
		assert.Equal(t, e, got)
	}

	_, ok := ParseEvent("warp")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Event(0).String())
	assert.False(t, Event(99).Valid())
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		key  Key
		down bool
		want Event
		ok   bool
	}{
		{KeyLeft, true, RotateLeft, true},
		{KeyLeft, false, RotateStop, true},
		{KeyRight, true, RotateRight, true},
		{KeyRight, false, RotateStop, true},
		{KeyUp, true, ThrustStart, true},
		{KeyUp, false, ThrustStop, true},
		{KeyFire, true, Fire, true},
		{KeyFire, false, FireRelease, true},
		{KeyEscape, true, Quit, true},
		{KeyEscape, false, 0, false},
		{KeyNone, true, 0, false},
	}
	for _, tt := range tests {
		got, ok := Translate(tt.key, tt.down)
		assert.Equal(t, tt.ok, ok, "key %d down=%v", tt.key, tt.down)
		assert.Equal(t, tt.want, got, "key %d down=%v", tt.key, tt.down)
	}
}
