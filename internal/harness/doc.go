// Package harness runs selection scenarios end to end.
//
// A scenario is a YAML file holding a selector configuration (CUE text or a
// path to a .cue file), a list of events in the event-file format and a list
// of assertions. Run builds every algorithm, drives each event through the
// engine in order, persists the run to a fresh in-memory store and reads the
// cutflow histograms back before evaluating assertions, so a passing scenario
// covers configuration, selection, fan-out and persistence in one pass.
//
// Supported assertion types:
//
//	event_pass       event passed every algorithm, or was skipped by one
//	cutflow          bin contents of the raw or weighted cutflow histogram
//	selector_counts  counters of one selector's accumulator
//	labels           variation labels published under a store key
//	decorations      decorations on one object of one collection
//	collection       presence or size of a collection after selection
//
// Scenarios are deterministic: the run id is fixed and events are processed
// sequentially, so RunWithGolden can compare the JSON report byte for byte.
package harness
