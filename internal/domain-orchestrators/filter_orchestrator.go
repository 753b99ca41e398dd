// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"sync"

	"github.com/ochairo/denyfilter/internal/domain/entities"
	"github.com/ochairo/denyfilter/internal/domain/interfaces"
	"github.com/ochairo/denyfilter/internal/domain/interfaces/gateways"
	"github.com/ochairo/denyfilter/internal/domain/interfaces/repositories"
	"github.com/ochairo/denyfilter/internal/domain/interfaces/services"
)

// DiagnosticsCollector is a sink that can replay what it received
type DiagnosticsCollector interface {
	gateways.DiagnosticsSink
	Diagnostics() []entities.Diagnostic
}

// FilterSession owns the denylist for one build and filters reference batches
// against it. The list is loaded at most once, on first use.
type FilterSession struct {
	repo   repositories.DenyListRepository
	denial services.DenialService
	sink   DiagnosticsCollector
	logger interfaces.Logger

	loadOnce sync.Once
	loaded   entities.LoadResult
	loadErr  error

	warnOnce sync.Once
}

// NewFilterSession creates a new filter session
func NewFilterSession(
	repo repositories.DenyListRepository,
	denial services.DenialService,
	sink DiagnosticsCollector,
	logger interfaces.Logger,
) *FilterSession {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &FilterSession{
		repo:   repo,
		denial: denial,
		sink:   sink,
		logger: logger,
	}
}

// FilterResult contains the result of one Execute call
type FilterResult struct {
	// Filtered holds every input reference, in order, with rewrites applied
	Filtered []entities.Reference
	// Unresolved holds the denied references that have no replacement
	Unresolved []entities.Reference
	Outcomes   []entities.Outcome
	List       entities.LoadResult
	// Diagnostics is everything the sink has received in this session
	Diagnostics []entities.Diagnostic
	Succeeded   bool
}

// DenyList returns the session's list, loading it on first call
func (s *FilterSession) DenyList(ctx context.Context) (entities.LoadResult, error) {
	s.loadOnce.Do(func() {
		s.loaded, s.loadErr = s.repo.Load(ctx)
	})
	return s.loaded, s.loadErr
}

// Execute filters references against the denylist. Only a failure to load
// the list is returned as an error; denials never are.
func (s *FilterSession) Execute(ctx context.Context, refs []entities.Reference, searchDirs []string) (*FilterResult, error) {
	list, err := s.DenyList(ctx)
	if err != nil {
		return nil, err
	}

	result := &FilterResult{
		Filtered:   make([]entities.Reference, len(refs)),
		Unresolved: make([]entities.Reference, 0),
		List:       list,
	}

	switch list.Status {
	case entities.ListNotFound:
		s.warnMissing(list.Path)
		copy(result.Filtered, refs)
	case entities.ListEmpty:
		copy(result.Filtered, refs)
	default:
		result.Outcomes = s.denial.Filter(list.List, refs, searchDirs)
		for i, outcome := range result.Outcomes {
			result.Filtered[i] = outcome.Apply(refs[i])
			if outcome.Disposition == entities.DeniedUnfixed {
				result.Unresolved = append(result.Unresolved, result.Filtered[i])
			}
		}
	}

	result.Diagnostics = s.sink.Diagnostics()
	result.Succeeded = !s.sink.HasErrors()

	s.logger.Debug("references filtered",
		interfaces.F("references", len(refs)),
		interfaces.F("unresolved", len(result.Unresolved)),
		interfaces.F("list_status", list.Status),
	)
	return result, nil
}

func (s *FilterSession) warnMissing(path string) {
	s.warnOnce.Do(func() {
		s.sink.Report(entities.Diagnostic{
			Severity: entities.SeverityWarning,
			Code:     entities.CodeDenyListNotFound,
			Message:  fmt.Sprintf("INTERNAL WARNING: Could not find the denied assemblies list %s. No references were filtered.", path),
		})
		s.sink.Report(entities.Diagnostic{
			Severity: entities.SeverityLow,
			Message:  fmt.Sprintf("denylist not found: %s", path),
		})
	})
}

// Report converts the result into its persisted form
func (r *FilterResult) Report() *entities.Report {
	entries := 0
	if r.List.List != nil {
		entries = r.List.List.Entries()
	}
	return &entities.Report{
		DenyList: entities.ReportDenyList{
			Path:    r.List.Path,
			Status:  r.List.Status,
			SHA256:  r.List.Digest,
			Entries: entries,
		},
		Filtered:    r.Filtered,
		Unresolved:  r.Unresolved,
		Outcomes:    r.Outcomes,
		Diagnostics: r.Diagnostics,
		Succeeded:   r.Succeeded,
	}
}
