package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mrlokans/contentmigrate/internal/cli"
	"github.com/mrlokans/contentmigrate/internal/config"
	"github.com/mrlokans/contentmigrate/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "serve":
		if err := entrypoint.Run(config.Load(), Version); err != nil {
			fail(err)
		}

	case "import":
		runImport(args)

	case "convert":
		cmd := cli.NewConvertCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fail(err)
		}
		if err := cmd.Run(); err != nil {
			fail(err)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		if strings.HasPrefix(command, "-") {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
			printUsage()
			os.Exit(1)
		}
		// A bare path is shorthand for "import -file <path>".
		runImport(append([]string{"-file", command}, args...))
	}
}

func runImport(args []string) {
	cmd := cli.NewImportCommand(config.Load())
	if err := cmd.ParseFlags(args); err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		stop()
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <export.xml> | <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  import    Import a WordPress export into the content store\n")
	fmt.Fprintf(os.Stderr, "  convert   Convert an HTML file into blocks and print them as JSON\n")
	fmt.Fprintf(os.Stderr, "  serve     Start the HTTP server with upload API and scheduled imports\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
