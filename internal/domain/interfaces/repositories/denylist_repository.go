// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/denyfilter/internal/domain/entities"
)

// DenyListRepository defines the interface for reading the denylist
type DenyListRepository interface {
	// Load reads the list. A missing file is reported through
	// LoadResult.Status; every other failure wraps entities.ErrListLoad.
	Load(ctx context.Context) (entities.LoadResult, error)
}
