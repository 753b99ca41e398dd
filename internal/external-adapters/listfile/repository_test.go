package listfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	adapters "github.com/ochairo/denyfilter/internal/domain-adapters/gateways"
	"github.com/ochairo/denyfilter/internal/domain/entities"
)

type mockIntegrity struct {
	checksumErr  error
	signatureErr error
	checksums    int
	signatures   int
}

func (m *mockIntegrity) CalculateChecksum(_ string) (string, error) {
	return "", nil
}

func (m *mockIntegrity) VerifyChecksum(_ context.Context, _, _ string) error {
	m.checksums++
	return m.checksumErr
}

func (m *mockIntegrity) VerifySignatureFromFile(_, _, _ string) error {
	m.signatures++
	return m.signatureErr
}

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deniedAssembliesList.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRepository_Load(t *testing.T) {
	const content = "bad.dll,G,1,0,0,0\n"
	sum := sha256.Sum256([]byte(content))

	tests := []struct {
		name       string
		path       func(t *testing.T) string
		wantStatus entities.ListStatus
		wantDigest string
	}{
		{
			name:       "loaded",
			path:       func(t *testing.T) string { return writeList(t, content) },
			wantStatus: entities.ListLoaded,
			wantDigest: hex.EncodeToString(sum[:]),
		},
		{
			name:       "empty",
			path:       func(t *testing.T) string { return writeList(t, "no commas here\n") },
			wantStatus: entities.ListEmpty,
		},
		{
			name:       "not found",
			path:       func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.txt") },
			wantStatus: entities.ListNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			result, err := NewRepository(path, Options{}).Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", result.Status, tt.wantStatus)
			}
			if result.Path != path {
				t.Errorf("Path = %q, want %q", result.Path, path)
			}
			if tt.wantDigest != "" && result.Digest != tt.wantDigest {
				t.Errorf("Digest = %q, want %q", result.Digest, tt.wantDigest)
			}
			if tt.wantStatus == entities.ListNotFound && result.List != nil {
				t.Error("List must be nil when not found")
			}
		})
	}
}

func TestRepository_Load_Failures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		opts Options
	}{
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name: "invalid utf8",
			path: func(t *testing.T) string { return writeList(t, "bad.dll,\xff,1,0,0,0\n") },
		},
		{
			name: "digest mismatch",
			path: func(t *testing.T) string { return writeList(t, "bad.dll,G,1,0,0,0\n") },
			opts: Options{SHA256: strings.Repeat("0", 64), Integrity: &mockIntegrity{checksumErr: errors.New("checksum mismatch")}},
		},
		{
			name: "bad signature",
			path: func(t *testing.T) string { return writeList(t, "bad.dll,G,1,0,0,0\n") },
			opts: Options{SignaturePath: "s.asc", KeyringPath: "k.asc", Integrity: &mockIntegrity{signatureErr: errors.New("bad sig")}},
		},
		{
			name: "signature without keyring",
			path: func(t *testing.T) string { return writeList(t, "bad.dll,G,1,0,0,0\n") },
			opts: Options{SignaturePath: "s.asc", Integrity: &mockIntegrity{}},
		},
		{
			name: "pin without verifier",
			path: func(t *testing.T) string { return writeList(t, "bad.dll,G,1,0,0,0\n") },
			opts: Options{SHA256: strings.Repeat("0", 64)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRepository(tt.path(t), tt.opts).Load(context.Background())
			if !errors.Is(err, entities.ErrListLoad) {
				t.Errorf("Load() error = %v, want ErrListLoad", err)
			}
		})
	}
}

func TestRepository_Load_RunsIntegrityChecks(t *testing.T) {
	path := writeList(t, "bad.dll,G,1,0,0,0\n")
	integrity := &mockIntegrity{}

	repo := NewRepository(path, Options{
		SHA256:        strings.Repeat("a", 64),
		SignaturePath: path + ".asc",
		KeyringPath:   "keyring.asc",
		Integrity:     integrity,
	})
	result, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Status != entities.ListLoaded {
		t.Errorf("Status = %v, want loaded", result.Status)
	}
	if integrity.checksums != 1 || integrity.signatures != 1 {
		t.Errorf("checks run = (%d, %d), want (1, 1)", integrity.checksums, integrity.signatures)
	}
}

func TestRepository_Load_PinnedDigest(t *testing.T) {
	const content = "bad.dll,G,1,0,0,0\n"
	path := writeList(t, content)
	sum := sha256.Sum256([]byte(content))

	repo := NewRepository(path, Options{
		SHA256:    "sha256:" + hex.EncodeToString(sum[:]),
		Integrity: adapters.NewListIntegrityGateway(),
	})
	if _, err := repo.Load(context.Background()); err != nil {
		t.Errorf("Load() with matching pin error = %v", err)
	}

	if err := os.WriteFile(path, []byte(content+"more.dll,G,1,0,0,0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(context.Background()); !errors.Is(err, entities.ErrListLoad) {
		t.Errorf("Load() after tampering error = %v, want ErrListLoad", err)
	}
}
