package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/robertazzopardi/asteroids/sim"
)

const (
	// Terminals report presses and auto-repeats but never releases. A key
	// counts as held until no repeat arrives within the window.
	initialHold = 500 * time.Millisecond // covers the typical repeat delay
	repeatHold  = 160 * time.Millisecond
)

// keyOf maps a terminal key to a control key
func keyOf(k tcell.Key, r rune) sim.Key {
	switch k {
	case tcell.KeyLeft:
		return sim.KeyLeft
	case tcell.KeyRight:
		return sim.KeyRight
	case tcell.KeyUp:
		return sim.KeyUp
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return sim.KeyEscape
	case tcell.KeyRune:
		switch r {
		case 'a', 'A', 'h':
			return sim.KeyLeft
		case 'd', 'D', 'l':
			return sim.KeyRight
		case 'w', 'W', 'k':
			return sim.KeyUp
		case ' ':
			return sim.KeyFire
		}
	}
	return sim.KeyNone
}

// HoldTracker turns press and repeat events into down/up transitions
type HoldTracker struct {
	held map[sim.Key]time.Time // key -> release deadline
}

// NewHoldTracker returns an empty tracker
func NewHoldTracker() *HoldTracker {
	return &HoldTracker{held: make(map[sim.Key]time.Time)}
}

// Press records a press at now and returns the events it produces. Repeats
// of a held key only extend its deadline. Pressing left releases right and
// the reverse, since both cannot be held on a terminal.
func (h *HoldTracker) Press(k sim.Key, now time.Time) []sim.Event {
	if k == sim.KeyNone {
		return nil
	}
	if k == sim.KeyEscape {
		ev, _ := sim.Translate(k, true)
		return []sim.Event{ev}
	}
	if _, ok := h.held[k]; ok {
		h.held[k] = now.Add(repeatHold)
		return nil
	}

	var out []sim.Event
	if opp, ok := opposite(k); ok {
		if _, held := h.held[opp]; held {
			delete(h.held, opp)
		}
	}
	h.held[k] = now.Add(firstHold(k))
	if ev, ok := sim.Translate(k, true); ok {
		out = append(out, ev)
	}
	return out
}

// Expire releases every key whose deadline passed
func (h *HoldTracker) Expire(now time.Time) []sim.Event {
	var out []sim.Event
	for k, deadline := range h.held {
		if now.Before(deadline) {
			continue
		}
		delete(h.held, k)
		if ev, ok := sim.Translate(k, false); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Reset forgets every held key
func (h *HoldTracker) Reset() {
	clear(h.held)
}

// firstHold is the window after a fresh press. Fire uses the short window
// so quick taps each fire. A held fire key shoots once until it goes quiet.
func firstHold(k sim.Key) time.Duration {
	if k == sim.KeyFire {
		return repeatHold
	}
	return initialHold
}

func opposite(k sim.Key) (sim.Key, bool) {
	switch k {
	case sim.KeyLeft:
		return sim.KeyRight, true
	case sim.KeyRight:
		return sim.KeyLeft, true
	}
	return sim.KeyNone, false
}
