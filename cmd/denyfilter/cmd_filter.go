package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ochairo/denyfilter/internal/config"
	"github.com/ochairo/denyfilter/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/denyfilter/internal/domain-orchestrators"
	"github.com/ochairo/denyfilter/internal/domain/interfaces"
	"github.com/ochairo/denyfilter/internal/domain/services"
	"github.com/ochairo/denyfilter/internal/external-adapters/listfile"
	"github.com/ochairo/denyfilter/internal/external-adapters/yaml"
)

type filterOptions struct {
	manifest         string
	listPath         string
	searchPaths      []string
	output           string
	listSHA256       string
	listSignature    string
	keyring          string
	failOnUnresolved bool
	verbose          bool
}

func runFilter(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	var searchPaths stringList
	var (
		manifest         = fs.String("manifest", "", "YAML manifest listing the references to filter")
		listPath         = fs.String("list", "", "Denylist file (default: manifest, $DENYFILTER_LIST, or beside the binary)")
		output           = fs.String("output", "", "Write the YAML report to this file")
		listSHA256       = fs.String("list-sha256", "", "Expected SHA256 of the denylist")
		listSignature    = fs.String("list-signature", "", "Detached OpenPGP signature of the denylist")
		keyring          = fs.String("keyring", "", "Public key file used to check --list-signature")
		failOnUnresolved = fs.Bool("fail-on-unresolved", false, "Exit non-zero when a denied reference has no replacement")
		verbose          = fs.Bool("verbose", false, "Show debug output")
	)
	fs.Var(&searchPaths, "search-path", "Directory searched for safe replacements (repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: denyfilter filter --manifest <file> [options]

Filter assembly references against a denylist of known-bad builds.

Each denied reference is redirected to the first same-named assembly found
in the search paths. Denied references without a replacement are reported.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  denyfilter filter --manifest refs.yml --search-path safe/net45 --search-path safe/facades
  denyfilter filter --manifest refs.yml --list denied.txt --output report.yml --fail-on-unresolved
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if *manifest == "" {
		fmt.Fprintf(os.Stderr, "Error: --manifest is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	opts := filterOptions{
		manifest:         *manifest,
		listPath:         *listPath,
		searchPaths:      searchPaths,
		output:           *output,
		listSHA256:       *listSHA256,
		listSignature:    *listSignature,
		keyring:          *keyring,
		failOnUnresolved: *failOnUnresolved,
		verbose:          *verbose,
	}

	if err := executeFilter(ctx, config.Load(), opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func executeFilter(ctx context.Context, cfg *config.Config, opts filterOptions, stdout, stderr io.Writer) error {
	manifest, err := yaml.NewManifestParser().ParseFile(opts.manifest)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	listPath := firstNonEmpty(opts.listPath, manifest.DenyList, cfg.ListPath)
	searchDirs := opts.searchPaths
	if len(searchDirs) == 0 {
		searchDirs = manifest.SearchPaths
	}
	if len(searchDirs) == 0 {
		searchDirs = cfg.SearchPaths
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = interfaces.LevelDebug
	}
	logger := interfaces.NewWriterLogger(stderr, level)

	// Layer 1: Create gateways (Infrastructure)
	sink := gateways.NewLoggingSink(logger)
	finder := gateways.NewFileFinder()
	repo := listfile.NewRepository(listPath, listfile.Options{
		SHA256:        firstNonEmpty(opts.listSHA256, cfg.ListSHA256),
		SignaturePath: opts.listSignature,
		KeyringPath:   opts.keyring,
		Integrity:     gateways.NewListIntegrityGateway(),
		Logger:        logger,
	})

	// Layer 2: Create service (Business Logic)
	denial := services.NewDenialService(services.DenialDeps{
		Resolver: gateways.NewIdentityResolver(),
		Prober:   finder,
		Finder:   finder,
		Sink:     sink,
		Logger:   logger,
	})

	// Layer 3: Create orchestrator (Use Case)
	session := orchestrators.NewFilterSession(repo, denial, sink, logger)

	result, err := session.Execute(ctx, manifest.References, searchDirs)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := yaml.NewReportWriter().WriteFile(opts.output, result.Report()); err != nil {
			return err
		}
	}

	renderSummary(stdout, result)

	if !result.Succeeded {
		return fmt.Errorf("filtering reported errors")
	}
	if opts.failOnUnresolved && len(result.Unresolved) > 0 {
		return fmt.Errorf("%d denied references have no replacement", len(result.Unresolved))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
