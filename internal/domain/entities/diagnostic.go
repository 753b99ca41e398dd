package entities

// Severity of a diagnostic raised during filtering
type Severity int

const (
	SeverityLow Severity = iota
	SeverityNormal
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityNormal:
		return "normal"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic codes understood by the host build
const (
	CodeDenyListNotFound    = "MSB3911"
	CodeReplacementNotFound = "MSB3912"
)

// Diagnostic is a (severity, code, message) tuple for the diagnostics sink
type Diagnostic struct {
	Severity Severity
	Code     string // optional
	Message  string
}
