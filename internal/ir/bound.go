package ir

import (
	"encoding/json"
	"strconv"
)

// LegacyUnset is the value older configurations use to mean "no bound".
const LegacyUnset = 1e8

// Bound is an optional threshold. The zero value is unset.
type Bound struct {
	value float64
	set   bool
}

// Unbounded returns an unset Bound.
func Unbounded() Bound {
	return Bound{}
}

// NewBound returns a Bound set to v.
func NewBound(v float64) Bound {
	return Bound{value: v, set: true}
}

// BoundFrom converts an optional config value. Nil and LegacyUnset both
// produce an unset Bound.
func BoundFrom(v *float64) Bound {
	if v == nil || *v == LegacyUnset {
		return Bound{}
	}
	return NewBound(*v)
}

// IsSet reports whether a threshold is configured.
func (b Bound) IsSet() bool {
	return b.set
}

// Value returns the threshold. Only meaningful when IsSet.
func (b Bound) Value() float64 {
	return b.value
}

// Ptr returns the threshold as an optional value.
func (b Bound) Ptr() *float64 {
	if !b.set {
		return nil
	}
	v := b.value
	return &v
}

func (b Bound) String() string {
	if !b.set {
		return "unset"
	}
	return strconv.FormatFloat(b.value, 'g', -1, 64)
}

// MarshalJSON encodes an unset Bound as null.
func (b Bound) MarshalJSON() ([]byte, error) {
	if !b.set {
		return []byte("null"), nil
	}
	return json.Marshal(b.value)
}
