package gateways

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// Test creating list integrity gateway with custom dependencies
func TestNewListIntegrityGatewayWithDeps(t *testing.T) {
	checksum := NewChecksumVerifier()
	gpg := NewGPGVerifier()

	gateway := NewListIntegrityGatewayWithDeps(checksum, gpg)

	composite, ok := gateway.(*listIntegrityGateway)
	if !ok {
		t.Fatal("Gateway is not of type *listIntegrityGateway")
	}
	if composite.checksumVerifier != checksum {
		t.Error("checksumVerifier not set correctly")
	}
	if composite.gpgVerifier != gpg {
		t.Error("gpgVerifier not set correctly")
	}
}

func TestListIntegrityGateway_Checksum(t *testing.T) {
	tmpDir := t.TempDir()
	listFile := filepath.Join(tmpDir, "deniedAssembliesList.txt")
	if err := os.WriteFile(listFile, []byte("bad.dll,K\n"), 0600); err != nil {
		t.Fatal(err)
	}

	gateway := NewListIntegrityGateway()
	sum, err := gateway.CalculateChecksum(listFile)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	if err := gateway.VerifyChecksum(context.Background(), listFile, sum); err != nil {
		t.Errorf("VerifyChecksum() error = %v", err)
	}
	if err := gateway.VerifyChecksum(context.Background(), listFile, strings.Repeat("f", 64)); err == nil {
		t.Error("VerifyChecksum() expected mismatch error")
	}
}

func TestListIntegrityGateway_VerifySignatureFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	entity, err := openpgp.NewEntity("lists", "test", "lists@example.com", nil)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	var key bytes.Buffer
	w, err := armor.Encode(&key, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	keyPath := filepath.Join(tmpDir, "key.asc")
	if err := os.WriteFile(keyPath, key.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	content := []byte("bad.dll,K\n")
	listFile := filepath.Join(tmpDir, "deniedAssembliesList.txt")
	if err := os.WriteFile(listFile, content, 0600); err != nil {
		t.Fatal(err)
	}
	var sig bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&sig, entity, bytes.NewReader(content), nil); err != nil {
		t.Fatal(err)
	}
	sigPath := listFile + ".asc"
	if err := os.WriteFile(sigPath, sig.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	gateway := NewListIntegrityGateway()
	if err := gateway.VerifySignatureFromFile(listFile, sigPath, keyPath); err != nil {
		t.Errorf("VerifySignatureFromFile() error = %v", err)
	}

	err = gateway.VerifySignatureFromFile(listFile, sigPath, filepath.Join(tmpDir, "missing.asc"))
	if err == nil || !strings.Contains(err.Error(), "failed to import GPG key") {
		t.Errorf("expected key import error, got %v", err)
	}
}
