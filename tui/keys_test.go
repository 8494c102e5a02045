package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/robertazzopardi/asteroids/sim"
)

func TestKeyOf(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want sim.Key
	}{
		{tcell.KeyLeft, 0, sim.KeyLeft},
		{tcell.KeyRight, 0, sim.KeyRight},
		{tcell.KeyUp, 0, sim.KeyUp},
		{tcell.KeyEscape, 0, sim.KeyEscape},
		{tcell.KeyCtrlC, 0, sim.KeyEscape},
		{tcell.KeyRune, 'a', sim.KeyLeft},
		{tcell.KeyRune, 'd', sim.KeyRight},
		{tcell.KeyRune, 'w', sim.KeyUp},
		{tcell.KeyRune, ' ', sim.KeyFire},
		{tcell.KeyRune, 'x', sim.KeyNone},
		{tcell.KeyDown, 0, sim.KeyNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyOf(tt.key, tt.r), "key %v rune %q", tt.key, tt.r)
	}
}

func isHeld(h *HoldTracker, k sim.Key) bool {
	_, ok := h.held[k]
	return ok
}

func TestHoldTrackerHeldFireShootsOnce(t *testing.T) {
	h := NewHoldTracker()
	t0 := time.Unix(0, 0)

	assert.Equal(t, []sim.Event{sim.Fire}, h.Press(sim.KeyFire, t0))
	for i := 1; i <= 10; i++ {
		now := t0.Add(time.Duration(i) * 30 * time.Millisecond)
		assert.Empty(t, h.Press(sim.KeyFire, now), "repeat %d", i)
		assert.Empty(t, h.Expire(now))
	}
	assert.Equal(t, []sim.Event{sim.FireRelease}, h.Expire(t0.Add(300*time.Millisecond+repeatHold)))
}

func TestHoldTrackerPressAndRelease(t *testing.T) {
	h := NewHoldTracker()
	t0 := time.Unix(0, 0)

	assert.Equal(t, []sim.Event{sim.ThrustStart}, h.Press(sim.KeyUp, t0))
	assert.True(t, isHeld(h, sim.KeyUp))

	// auto-repeat keeps it held without new events
	assert.Empty(t, h.Press(sim.KeyUp, t0.Add(400*time.Millisecond)))
	assert.Empty(t, h.Expire(t0.Add(450*time.Millisecond)))

	// no repeat within the window releases it
	assert.Equal(t, []sim.Event{sim.ThrustStop}, h.Expire(t0.Add(400*time.Millisecond+repeatHold)))
	assert.False(t, isHeld(h, sim.KeyUp))
}

func TestHoldTrackerInitialWindowCoversRepeatDelay(t *testing.T) {
	h := NewHoldTracker()
	t0 := time.Unix(0, 0)

	h.Press(sim.KeyLeft, t0)
	assert.Empty(t, h.Expire(t0.Add(300*time.Millisecond)))
	assert.Equal(t, []sim.Event{sim.RotateStop}, h.Expire(t0.Add(initialHold)))
}

func TestHoldTrackerFireTaps(t *testing.T) {
	h := NewHoldTracker()
	t0 := time.Unix(0, 0)

	assert.Equal(t, []sim.Event{sim.Fire}, h.Press(sim.KeyFire, t0))
	assert.Equal(t, []sim.Event{sim.FireRelease}, h.Expire(t0.Add(repeatHold)))
	assert.Equal(t, []sim.Event{sim.Fire}, h.Press(sim.KeyFire, t0.Add(200*time.Millisecond)))
}

func TestHoldTrackerOppositeTurn(t *testing.T) {
	h := NewHoldTracker()
	t0 := time.Unix(0, 0)

	h.Press(sim.KeyLeft, t0)
	assert.Equal(t, []sim.Event{sim.RotateRight}, h.Press(sim.KeyRight, t0.Add(50*time.Millisecond)))
	assert.False(t, isHeld(h, sim.KeyLeft))
	assert.True(t, isHeld(h, sim.KeyRight))
}

func TestHoldTrackerEscapeAndNone(t *testing.T) {
	h := NewHoldTracker()
	t0 := time.Unix(0, 0)

	assert.Equal(t, []sim.Event{sim.Quit}, h.Press(sim.KeyEscape, t0))
	assert.False(t, isHeld(h, sim.KeyEscape), "escape is never held")
	assert.Nil(t, h.Press(sim.KeyNone, t0))
}

func TestHoldTrackerReset(t *testing.T) {
	h := NewHoldTracker()
	t0 := time.Unix(0, 0)
	h.Press(sim.KeyUp, t0)
	h.Press(sim.KeyFire, t0)

	h.Reset()

	assert.False(t, isHeld(h, sim.KeyUp))
	assert.Empty(t, h.Expire(t0.Add(time.Hour)))
}
