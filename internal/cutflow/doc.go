// Package cutflow accumulates selection statistics over a run.
//
// An Accumulator holds the monotone counters of one selector instance.
// Only the pass flagged as counted by the fan-out controller mutates it,
// so its totals do not depend on how many variations are processed.
// At run end the event-pass counts are written into a pair of labelled
// histograms owned by the caller.
package cutflow
