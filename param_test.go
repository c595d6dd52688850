package cwt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParam_ValueAndSet tests basic value access.
func TestParam_ValueAndSet(t *testing.T) {
	p := newParam(0.5, true)
	assert.InDelta(t, 0.5, p.Value(), 0)
	assert.True(t, p.Trainable())

	p.SetValue(2.0)
	assert.InDelta(t, 2.0, p.Value(), 0)
}

// TestParam_SetValueNonTrainable verifies that SetValue works regardless of
// the trainable flag, which only advertises intent.
func TestParam_SetValueNonTrainable(t *testing.T) {
	p := newParam(0.5, false)
	assert.False(t, p.Trainable())

	p.SetValue(1.0)
	assert.InDelta(t, 1.0, p.Value(), 0)
}

// TestParam_Grad tests gradient accumulation and reset.
func TestParam_Grad(t *testing.T) {
	p := newParam(0.5, true)
	assert.Zero(t, p.Grad())

	p.AddGrad(0.25)
	p.AddGrad(0.25)
	assert.InDelta(t, 0.5, p.Grad(), 0)

	p.ZeroGrad()
	assert.Zero(t, p.Grad())

	// Gradient operations never touch the value.
	assert.InDelta(t, 0.5, p.Value(), 0)
}

// TestParam_ConcurrentAccess exercises the lock under the race detector.
func TestParam_ConcurrentAccess(t *testing.T) {
	p := newParam(1.0, true)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 100 {
				p.SetValue(p.Value() + 0.001)
				p.AddGrad(1)
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				_ = p.Value()
				_ = p.Grad()
			}
		}()
	}
	wg.Wait()

	assert.Greater(t, p.Value(), 1.0)
	assert.InDelta(t, 800.0, p.Grad(), 0)
}
