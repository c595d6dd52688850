package cwt

import "sync"

// Param is a mutable scalar parameter with gradient storage. A Transform
// exposes its wavelet width through a Param so an external optimizer can
// read the value, accumulate a gradient, and write an updated value between
// transforms. The package itself never differentiates anything; Grad is
// storage only.
//
// All methods are safe for concurrent use.
type Param struct {
	mu        sync.RWMutex
	value     float64
	grad      float64
	trainable bool
}

func newParam(value float64, trainable bool) *Param {
	return &Param{value: value, trainable: trainable}
}

// Value returns the current parameter value.
func (p *Param) Value() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// SetValue replaces the parameter value. The next transform observes the
// new value. Setting a value is permitted regardless of Trainable.
func (p *Param) SetValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
}

// Trainable reports whether the parameter was marked for optimization.
func (p *Param) Trainable() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.trainable
}

// Grad returns the accumulated gradient.
func (p *Param) Grad() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.grad
}

// AddGrad accumulates delta into the gradient.
func (p *Param) AddGrad(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grad += delta
}

// ZeroGrad resets the accumulated gradient.
func (p *Param) ZeroGrad() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grad = 0
}
