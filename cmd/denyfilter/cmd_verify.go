package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ochairo/denyfilter/internal/config"
	"github.com/ochairo/denyfilter/internal/domain-adapters/gateways"
	"github.com/ochairo/denyfilter/internal/domain/entities"
	"github.com/ochairo/denyfilter/internal/external-adapters/listfile"
)

func runVerifyList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("verify-list", flag.ExitOnError)
	var (
		listPath  = fs.String("list", "", "Denylist file (default: $DENYFILTER_LIST or beside the binary)")
		sha256Sum = fs.String("sha256", "", "Expected SHA256 of the denylist")
		signature = fs.String("signature", "", "Detached OpenPGP signature (.asc or .sig)")
		keyring   = fs.String("keyring", "", "Public key file for --signature")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: denyfilter verify-list [options]

Check a denylist before it is deployed: digest pin, detached signature,
and that it parses to at least one entry.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  denyfilter verify-list --list deniedAssembliesList.txt --signature deniedAssembliesList.txt.asc --keyring release.asc
  denyfilter verify-list --sha256 3b1f...
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load()
	opts := listfile.Options{
		SHA256:        firstNonEmpty(*sha256Sum, cfg.ListSHA256),
		SignaturePath: *signature,
		KeyringPath:   *keyring,
	}

	if err := executeVerifyList(ctx, firstNonEmpty(*listPath, cfg.ListPath), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func executeVerifyList(ctx context.Context, listPath string, opts listfile.Options, stdout io.Writer) error {
	integrity := gateways.NewListIntegrityGateway()
	opts.Integrity = integrity

	fmt.Fprintf(stdout, "🔍 Verifying %s\n\n", listPath)

	result, err := listfile.NewRepository(listPath, opts).Load(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "❌ Denylist verification FAILED\n")
		return err
	}

	switch result.Status {
	case entities.ListNotFound:
		return fmt.Errorf("denylist not found: %s", listPath)
	case entities.ListEmpty:
		return fmt.Errorf("denylist %s has no entries", listPath)
	}

	if opts.SHA256 != "" {
		fmt.Fprintf(stdout, "✅ Checksum verified\n")
	}
	if opts.SignaturePath != "" {
		fmt.Fprintf(stdout, "✅ GPG signature verified\n")
	}
	fmt.Fprintf(stdout, "✅ %d entries, %d distinct names\n", result.List.Entries(), len(result.List.NamesOnly))
	fmt.Fprintf(stdout, "sha256: %s\n", result.Digest)
	return nil
}
