package commands

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	var to string
	var output string

	cmd := &cobra.Command{
		Use:   "convert --to binary|text [file]",
		Short: "Convert a parse tree between the text and binary encodings",
		Long: `Convert a parse tree between the JSON text encoding and the
length-prefixed binary encoding.

Binary data read from or written to a file is raw bytes; on stdin or
stdout it is base64 so it survives the terminal.`,
		Example: `  # Text to binary and back
  pgparser parse --compact queries.sql > tree.json
  pgparser convert --to binary tree.json -o tree.bin
  pgparser convert --to text tree.bin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, to, output)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target encoding: binary or text")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	_ = cmd.MarkFlagRequired("to")

	_ = cmd.RegisterFlagCompletionFunc("to", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"binary", "text"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, to, output string) error {
	data, name, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	fromStdin := len(args) == 0 || args[0] == "-"

	switch to {
	case "text":
		raw := data
		if fromStdin {
			raw, err = base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
			if err != nil {
				return fmt.Errorf("invalid base64 input: %w", err)
			}
		}
		text, err := pgparser.BinaryToText(raw)
		if err != nil {
			return reportError(cmd, name, "", err)
		}
		if output != "" {
			return os.WriteFile(output, []byte(text), 0o644)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil

	case "binary":
		buf, err := pgparser.TextToBinary(string(data))
		if err != nil {
			return reportError(cmd, name, "", err)
		}
		defer buf.Release()
		if output != "" {
			return os.WriteFile(output, buf.Bytes(), 0o644)
		}
		fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(buf.Bytes()))
		return nil

	default:
		return fmt.Errorf("invalid --to %q (expected binary or text)", to)
	}
}
