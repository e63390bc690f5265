package ir

// Version constants for the selection output.
const (
	// SchemaVersion is the version of the persisted cutflow layout.
	SchemaVersion = "1"

	// EngineVersion is the objsel engine version.
	EngineVersion = "0.1.0"
)
