// Package ir provides the in-memory representation of reconstructed physics
// objects shared by every stage of the selection.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Objects live for one event; decorations written to an object are
//     visible to every later criterion in the same event
//   - Collections preserve insertion order
//   - Bounds are explicit optionals, never magic values
//   - The nominal variation is the empty label
package ir
