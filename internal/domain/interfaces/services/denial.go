// Package services defines interfaces for domain service contracts.
package services

import (
	"github.com/ochairo/denyfilter/internal/domain/entities"
)

// DenialService decides, per reference, whether it is allowed, denied
// and fixed, or denied and unfixable
type DenialService interface {
	// Filter returns one outcome per reference, in input order
	Filter(list *entities.DenyList, refs []entities.Reference, searchDirs []string) []entities.Outcome

	// Decide computes the outcome for a single reference
	Decide(list *entities.DenyList, ref entities.Reference, searchDirs []string) entities.Outcome
}
