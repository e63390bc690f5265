package ir

// Decoration keys written by the selection.
const (
	DecorPassSel    = "passSel"
	DecorIsIsolated = "isIsolated"
)

// Object is one reconstructed candidate in one event.
//
// Kinematics and the tag bundle are read-only to the selection. The
// decoration map is the only mutable part and lives as long as the object.
type Object struct {
	Pt  float64
	Eta float64

	// Electron tags.
	Author  uint16
	OQ      uint32
	Cluster *Cluster

	// Muon tags.
	Type    MuonType
	Quality Quality

	// Track is nil for objects without an associated track.
	Track *Track

	// Isolation holds isolation variables keyed by type, e.g. "ptcone20".
	Isolation map[string]float64

	// Tags holds boolean decisions computed upstream, e.g. "LHMedium".
	Tags map[string]bool

	decorations map[string]int
}

// HasAuthor reports whether any of the given author bits is set.
func (o *Object) HasAuthor(bits uint16) bool {
	return o.Author&bits != 0
}

// IsolationValue returns the isolation variable of the given type.
func (o *Object) IsolationValue(isoType string) (float64, bool) {
	v, ok := o.Isolation[isoType]
	return v, ok
}

// Tag returns an upstream decision; absent tags read as false.
func (o *Object) Tag(key string) bool {
	return o.Tags[key]
}

// Decorate sets a decoration, overwriting any previous value.
func (o *Object) Decorate(key string, value int) {
	if o.decorations == nil {
		o.decorations = make(map[string]int)
	}
	o.decorations[key] = value
}

// DecorateBool sets a boolean decoration as 1 or 0.
func (o *Object) DecorateBool(key string, value bool) {
	if value {
		o.Decorate(key, 1)
		return
	}
	o.Decorate(key, 0)
}

// Decoration returns a decoration and whether it was set.
func (o *Object) Decoration(key string) (int, bool) {
	v, ok := o.decorations[key]
	return v, ok
}

// Decorations returns a copy of all decorations.
func (o *Object) Decorations() map[string]int {
	out := make(map[string]int, len(o.decorations))
	for k, v := range o.decorations {
		out[k] = v
	}
	return out
}

// Outcome returns the passSel decoration as an Outcome.
func (o *Object) Outcome() (Outcome, bool) {
	v, ok := o.decorations[DecorPassSel]
	return Outcome(v), ok
}

// Collection is an ordered, insertion-preserving view of objects.
// A materialized sub-collection shares the objects of its parent.
type Collection []*Object
