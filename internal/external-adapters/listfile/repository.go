package listfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ochairo/denyfilter/internal/domain/entities"
	"github.com/ochairo/denyfilter/internal/domain/interfaces"
	"github.com/ochairo/denyfilter/internal/domain/interfaces/gateways"
)

// Options controls integrity checks applied before the list is parsed
type Options struct {
	// SHA256 pins the list file to a known digest when set
	SHA256 string
	// SignaturePath and KeyringPath enable detached signature verification
	SignaturePath string
	KeyringPath   string
	// Integrity is required when either check is enabled
	Integrity gateways.ListIntegrityVerifier
	Logger    interfaces.Logger
}

// Repository implements repositories.DenyListRepository over a local file
type Repository struct {
	path string
	opts Options
}

// NewRepository creates a repository reading the list at path
func NewRepository(path string, opts Options) *Repository {
	if opts.Logger == nil {
		opts.Logger = &interfaces.NoOpLogger{}
	}
	return &Repository{path: path, opts: opts}
}

// Path returns the list location this repository reads
func (r *Repository) Path() string {
	return r.path
}

// Load reads, verifies and parses the list file
func (r *Repository) Load(ctx context.Context) (entities.LoadResult, error) {
	result := entities.LoadResult{Path: r.path}

	info, err := os.Stat(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		result.Status = entities.ListNotFound
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("%w: %w", entities.ErrListLoad, err)
	}
	if info.IsDir() {
		return result, fmt.Errorf("%w: %s is a directory", entities.ErrListLoad, r.path)
	}

	if err := r.verify(ctx); err != nil {
		return result, fmt.Errorf("%w: %w", entities.ErrListLoad, err)
	}

	//nolint:gosec // G304: path is the configured denylist location
	data, err := os.ReadFile(r.path)
	if err != nil {
		return result, fmt.Errorf("%w: %w", entities.ErrListLoad, err)
	}

	list, err := Parse(r.path, data)
	if err != nil {
		return result, err
	}

	sum := sha256.Sum256(data)
	result.Digest = hex.EncodeToString(sum[:])
	result.List = list
	result.Status = entities.ListLoaded
	if list.Empty {
		result.Status = entities.ListEmpty
	}

	r.opts.Logger.Debug("denylist loaded",
		interfaces.F("path", r.path),
		interfaces.F("status", result.Status),
		interfaces.F("entries", list.Entries()),
	)
	return result, nil
}

func (r *Repository) verify(ctx context.Context) error {
	pin := r.opts.SHA256 != ""
	sign := r.opts.SignaturePath != "" || r.opts.KeyringPath != ""
	if !pin && !sign {
		return nil
	}
	if r.opts.Integrity == nil {
		return fmt.Errorf("no integrity verifier configured")
	}

	if pin {
		if err := r.opts.Integrity.VerifyChecksum(ctx, r.path, r.opts.SHA256); err != nil {
			return err
		}
		r.opts.Logger.Debug("denylist digest verified", interfaces.F("path", r.path))
	}

	if sign {
		if r.opts.SignaturePath == "" || r.opts.KeyringPath == "" {
			return fmt.Errorf("signature verification needs both a signature and a keyring")
		}
		if err := r.opts.Integrity.VerifySignatureFromFile(r.path, r.opts.SignaturePath, r.opts.KeyringPath); err != nil {
			return err
		}
		r.opts.Logger.Debug("denylist signature verified", interfaces.F("signature", r.opts.SignaturePath))
	}

	return nil
}
