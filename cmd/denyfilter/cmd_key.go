package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ochairo/denyfilter/internal/domain-adapters/gateways"
)

func runKey(_ context.Context, args []string) {
	fs := flag.NewFlagSet("key", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Also print MVID and version per assembly")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: denyfilter key <assembly>... [options]

Print the denylist line identifying each assembly build.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  denyfilter key bin/System.Net.Http.dll >> deniedAssembliesList.txt
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one assembly path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if err := executeKey(fs.Args(), *verbose, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func executeKey(paths []string, verbose bool, stdout, stderr io.Writer) error {
	resolver := gateways.NewIdentityResolver()

	failed := 0
	for _, path := range paths {
		identity, err := resolver.Identify(path)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			failed++
			continue
		}

		if verbose {
			fmt.Fprintf(stdout, "# %s mvid=%s version=%s\n", path, identity.InstanceID, identity.Version)
		}
		fmt.Fprintln(stdout, identity.Key())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d assemblies could not be identified", failed, len(paths))
	}
	return nil
}
