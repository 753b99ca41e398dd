package gateways

import (
	"fmt"

	"github.com/ochairo/denyfilter/internal/external-adapters/gpg"
)

// gpgVerifier wraps the external GPG adapter for denylist signatures
type gpgVerifier struct{}

// NewGPGVerifier creates a new GPG verifier gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGPGVerifier() *gpgVerifier {
	return &gpgVerifier{}
}

// VerifySignatureFromFile verifies a detached signature of filePath
// against a fresh keyring loaded from keyringPath
func (g *gpgVerifier) VerifySignatureFromFile(filePath, sigPath, keyringPath string) error {
	verifier := gpg.NewVerifier()
	if err := verifier.ImportKeyFromFile(keyringPath); err != nil {
		return fmt.Errorf("failed to import GPG key from file: %w", err)
	}
	if err := verifier.VerifySignatureFromFile(filePath, sigPath); err != nil {
		return fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return nil
}
