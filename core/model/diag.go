package model

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic codes for recoverable conditions surfaced by the pipeline.
const (
	// DiagDegenerateTable flags a calibration table with a single point,
	// which evaluates to a constant instead of interpolating.
	DiagDegenerateTable = "degenerate_table"
	// DiagScheduleOverlap flags same-component intervals that share samples.
	DiagScheduleOverlap = "schedule_overlap"
	// DiagSolverFallback flags a run where the adaptive solver failed and
	// the trajectory was recomputed by Coulomb counting.
	DiagSolverFallback = "solver_fallback"
)

// Diagnostic records a recoverable condition encountered during a run.
// Diagnostics travel with results so callers can inspect them without
// scraping logs.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
}
