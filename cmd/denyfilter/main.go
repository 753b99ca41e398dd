package main

import (
	"context"
	"fmt"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "filter":
		runFilter(ctx, os.Args[2:])
	case "key":
		runKey(ctx, os.Args[2:])
	case "verify-list":
		runVerifyList(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`denyfilter - Redirect denied assembly references to safe builds

Usage:
  denyfilter <command> [options]

Commands:
  filter       Filter a reference manifest against the denylist
  key          Print denylist keys for assemblies
  verify-list  Check a denylist's digest and signature

Use "denyfilter <command> --help" for more information about a command.`)
}

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
