package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/contentmigrate/internal/richtext"
)

// ConvertCommand prints the blocks for a single HTML file.
type ConvertCommand struct {
	InputPath string
	ShowMode  bool

	Out io.Writer
}

func NewConvertCommand() *ConvertCommand {
	return &ConvertCommand{Out: os.Stdout}
}

func (cmd *ConvertCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVar(&cmd.InputPath, "file", "", "Path to an HTML file (required, - for stdin)")
	fs.BoolVar(&cmd.ShowMode, "mode", false, "Print the conversion mode to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s convert -file <post.html>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Convert post HTML into blocks and print them as JSON.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.InputPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ConvertCommand) Run() error {
	var (
		raw []byte
		err error
	)
	if cmd.InputPath == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(cmd.InputPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	conv := richtext.NewConverter().ConvertDetailed(string(raw))
	if cmd.ShowMode {
		fmt.Fprintf(os.Stderr, "mode: %s\n", conv.Mode)
	}

	blocks := conv.Blocks
	if blocks == nil {
		blocks = []richtext.Block{}
	}

	enc := json.NewEncoder(cmd.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(blocks)
}
