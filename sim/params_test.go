package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscalationBumpAndReset(t *testing.T) {
	p := DefaultParams()
	p.Escalate()
	p.Escalate()
	assert.InDelta(t, 1.9, p.SpeedMax, 1e-9)

	p.ResetEscalation()
	assert.Equal(t, AsteroidSpeedMax, p.SpeedMax)
}

func TestClampDt(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0.0, p.ClampDt(-1))
	assert.Equal(t, 0.016, p.ClampDt(0.016))
	assert.Equal(t, MaxDt, p.ClampDt(3))
}

func TestCenter(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 400.0, p.Center().X)
	assert.Equal(t, 400.0, p.Center().Y)
}
