package device

// Positioner models a clamped integer actuator: an LED brightness channel or
// the servo angle. Its value always lies within [min, max].
type Positioner struct {
	min   int64
	max   int64
	def   int64
	value int64
}

// NewPositioner returns a positioner at its default value. The default is
// clamped into range.
func NewPositioner(lo, hi, def int64) *Positioner {
	p := &Positioner{min: lo, max: hi}
	p.def = p.clamp(def)
	p.value = p.def
	return p
}

func (p *Positioner) clamp(v int64) int64 {
	return max(min(v, p.max), p.min)
}

// Get returns the current value.
func (p *Positioner) Get() int64 {
	return p.value
}

// Set stores v clamped into range and returns the stored value.
func (p *Positioner) Set(v int64) int64 {
	p.value = p.clamp(v)
	return p.value
}

func (p *Positioner) SetMin() int64 { return p.Set(p.min) }
func (p *Positioner) SetMax() int64 { return p.Set(p.max) }

// Reset restores the default value.
func (p *Positioner) Reset() int64 {
	p.value = p.def
	return p.value
}

func (p *Positioner) Min() int64     { return p.min }
func (p *Positioner) Max() int64     { return p.max }
func (p *Positioner) Default() int64 { return p.def }
