// Package engine runs configured selectors over events.
//
// ARCHITECTURE:
//
// Single-Threaded Event Loop:
// The Driver processes one event to completion before the next. For each
// event every Algorithm runs in declaration order; within an Algorithm the
// variations of the input are processed strictly sequentially. This ensures:
// - Exactly one counted pass per event and selector
// - Materialized collections are recorded once per key
// - Reproducible cutflows for the same input
//
// Event Processing Flow:
// 1. Driver.Run builds a fresh event.Store from each record
// 2. Driver.Process stamps the event with the next Clock value
// 3. Each Algorithm.Execute reads the weight, the primary vertex and its
//    input collections from the store
// 4. CollectionSelector.SelectAll decides every object, gates the event
//    and feeds the cutflow accumulator on the counted pass
// 5. Passing variations are published back to the store; a failing event
//    stops the remaining algorithms for that event
//
// CRITICAL PATTERNS:
//
// Counted Pass:
// Only the first variation label of an event updates the cutflow. Totals do
// not depend on the number of variations processed.
//
// Skip Is Not An Error:
// An event that fails an Algorithm is reported through Result.Skip. Errors
// are reserved for configuration and missing upstream data, and end the run.
package engine
