package logging

// LogEntry represents a structured log record with fields particularly
// relevant to evolutionary search runs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Run-specific fields
	RunID      string // Evolution run the entry belongs to
	Generation int    // Generation counter, -1 outside a run
	Latency    int64  // Operation duration in milliseconds

	// General structured data
	Fields map[string]interface{}
}
