package gateways

import (
	"context"

	"github.com/ochairo/denyfilter/internal/domain/interfaces/gateways"
)

// listIntegrityGateway implements ListIntegrityVerifier by composing
// the checksum and GPG gateways
type listIntegrityGateway struct {
	checksumVerifier *checksumVerifier
	gpgVerifier      *gpgVerifier
}

// NewListIntegrityGateway creates a new list integrity gateway with all dependencies
func NewListIntegrityGateway() gateways.ListIntegrityVerifier {
	return &listIntegrityGateway{
		checksumVerifier: NewChecksumVerifier(),
		gpgVerifier:      NewGPGVerifier(),
	}
}

// NewListIntegrityGatewayWithDeps creates a list integrity gateway with custom dependencies
func NewListIntegrityGatewayWithDeps(checksum *checksumVerifier, gpg *gpgVerifier) gateways.ListIntegrityVerifier {
	return &listIntegrityGateway{
		checksumVerifier: checksum,
		gpgVerifier:      gpg,
	}
}

// CalculateChecksum returns the hex SHA-256 of a file
func (l *listIntegrityGateway) CalculateChecksum(filePath string) (string, error) {
	return l.checksumVerifier.CalculateChecksum(filePath)
}

// VerifyChecksum verifies a file against a pinned SHA-256
func (l *listIntegrityGateway) VerifyChecksum(ctx context.Context, filePath, expectedSum string) error {
	return l.checksumVerifier.VerifyChecksum(ctx, filePath, expectedSum)
}

// VerifySignatureFromFile verifies a detached OpenPGP signature
func (l *listIntegrityGateway) VerifySignatureFromFile(filePath, sigPath, keyringPath string) error {
	return l.gpgVerifier.VerifySignatureFromFile(filePath, sigPath, keyringPath)
}
