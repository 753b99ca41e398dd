package gateways

import "context"

// ListIntegrityVerifier checks the denylist file before it is parsed
type ListIntegrityVerifier interface {
	// CalculateChecksum returns the hex SHA-256 of a file
	CalculateChecksum(filePath string) (string, error)

	// VerifyChecksum fails when the file digest differs from expectedSum
	VerifyChecksum(ctx context.Context, filePath, expectedSum string) error

	// VerifySignatureFromFile checks a detached OpenPGP signature of
	// filePath against the keys in keyringPath
	VerifySignatureFromFile(filePath, sigPath, keyringPath string) error
}
