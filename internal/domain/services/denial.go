// Package services implements domain business logic and use cases.
package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ochairo/denyfilter/internal/domain/entities"
	"github.com/ochairo/denyfilter/internal/domain/interfaces"
	"github.com/ochairo/denyfilter/internal/domain/interfaces/gateways"
	"github.com/ochairo/denyfilter/internal/domain/interfaces/services"
)

// denialService implements DenialService on top of injected gateways
type denialService struct {
	resolver gateways.IdentityResolver
	prober   gateways.FileProber
	finder   gateways.ReplacementFinder
	sink     gateways.DiagnosticsSink
	logger   interfaces.Logger
}

// DenialDeps groups the collaborators of the denial service
type DenialDeps struct {
	Resolver gateways.IdentityResolver
	Prober   gateways.FileProber
	Finder   gateways.ReplacementFinder
	Sink     gateways.DiagnosticsSink
	Logger   interfaces.Logger
}

// NewDenialService creates a new denial service with dependency injection
func NewDenialService(deps DenialDeps) services.DenialService {
	logger := deps.Logger
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &denialService{
		resolver: deps.Resolver,
		prober:   deps.Prober,
		finder:   deps.Finder,
		sink:     deps.Sink,
		logger:   logger,
	}
}

// Filter decides every reference in order. It never fails because of
// denials; unfixable ones are only reported.
func (s *denialService) Filter(list *entities.DenyList, refs []entities.Reference, searchDirs []string) []entities.Outcome {
	outcomes := make([]entities.Outcome, len(refs))
	for i, ref := range refs {
		outcomes[i] = s.Decide(list, ref, searchDirs)
	}
	return outcomes
}

// Decide runs the per-reference state machine:
// unresolved path -> allowed | denied-fixed | denied-unfixed
func (s *denialService) Decide(list *entities.DenyList, ref entities.Reference, searchDirs []string) entities.Outcome {
	candidate, viaHint := s.resolveCandidate(ref)
	if candidate == "" {
		return entities.Outcome{Disposition: entities.Allowed}
	}

	allowed := entities.Outcome{Disposition: entities.Allowed, CandidatePath: candidate}
	if list == nil || list.Empty {
		return allowed
	}

	filename := filepath.Base(candidate)
	if !list.HasName(filename) {
		return allowed
	}

	key, err := s.resolver.ComputeKey(candidate)
	if err != nil {
		// Filename alone never denies
		s.logger.Debug("identity unavailable, treating as allowed",
			interfaces.F("path", candidate),
			interfaces.F("error", err),
		)
		return allowed
	}
	if !list.Contains(key) {
		return allowed
	}

	s.logger.Debug("denied module build matched",
		interfaces.F("path", candidate),
		interfaces.F("key", key),
	)

	replacement, found := s.finder.FindReplacement(searchDirs, filename)
	if !found {
		s.report(entities.Diagnostic{
			Severity: entities.SeverityWarning,
			Code:     entities.CodeReplacementNotFound,
			Message: fmt.Sprintf("Could not find the replacement assembly (%s) for the denied reference %s in the search paths %s. This might cause issues at runtime.",
				filename, candidate, StringifyList(searchDirs)),
		})
		return entities.Outcome{
			Disposition:   entities.DeniedUnfixed,
			CandidatePath: candidate,
			DeniedPath:    candidate,
		}
	}

	s.report(entities.Diagnostic{
		Severity: entities.SeverityLow,
		Message: fmt.Sprintf("Changed the denied assembly reference path from %s to the safe assembly path %s.",
			candidate, replacement),
	})
	return entities.Outcome{
		Disposition:   entities.DeniedFixed,
		CandidatePath: candidate,
		DeniedPath:    candidate,
		Substitution: &entities.Substitution{
			NewPath: replacement,
			ViaHint: viaHint,
		},
	}
}

// resolveCandidate prefers the resolved primary path and falls back to
// the hint path. It returns "" when neither exists.
func (s *denialService) resolveCandidate(ref entities.Reference) (string, bool) {
	primary := ref.FullPath
	if primary == "" {
		primary = ref.ItemSpec
	}
	if primary != "" && s.prober.Exists(primary) {
		return primary, false
	}

	if ref.HintPath == "" {
		return "", false
	}
	hint, err := filepath.Abs(ref.HintPath)
	if err != nil {
		return "", false
	}
	if !s.prober.Exists(hint) {
		return "", false
	}
	return hint, true
}

func (s *denialService) report(d entities.Diagnostic) {
	if s.sink != nil {
		s.sink.Report(d)
	}
}

// StringifyList joins items as "a, b and c". One item is returned as is
// and an empty list yields "".
func StringifyList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
