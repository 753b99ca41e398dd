package gateways

import (
	"sync"

	"github.com/ochairo/denyfilter/internal/domain/entities"
	"github.com/ochairo/denyfilter/internal/domain/interfaces"
)

// LoggingSink forwards diagnostics to a Logger and keeps them for the report
type LoggingSink struct {
	mu          sync.Mutex
	logger      interfaces.Logger
	diagnostics []entities.Diagnostic
	errors      int
}

// NewLoggingSink creates a diagnostics sink backed by logger
func NewLoggingSink(logger interfaces.Logger) *LoggingSink {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &LoggingSink{logger: logger}
}

// Report records d and logs it at the matching level
func (s *LoggingSink) Report(d entities.Diagnostic) {
	s.mu.Lock()
	s.diagnostics = append(s.diagnostics, d)
	if d.Severity == entities.SeverityError {
		s.errors++
	}
	s.mu.Unlock()

	var fields []interfaces.Field
	if d.Code != "" {
		fields = append(fields, interfaces.F("code", d.Code))
	}

	switch d.Severity {
	case entities.SeverityLow:
		s.logger.Debug(d.Message, fields...)
	case entities.SeverityWarning:
		s.logger.Warn(d.Message, fields...)
	case entities.SeverityError:
		s.logger.Error(d.Message, fields...)
	default:
		s.logger.Info(d.Message, fields...)
	}
}

// HasErrors reports whether any error-level diagnostic was recorded
func (s *LoggingSink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors > 0
}

// Diagnostics returns a copy of everything reported so far
func (s *LoggingSink) Diagnostics() []entities.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}
