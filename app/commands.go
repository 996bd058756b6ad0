package app

import (
	"github.com/spf13/cobra"

	"text2phenotype.com/postag/output"
)

const (
	defaultCodeInput  = "./parquet/code"
	defaultCodeOutput = "./parquet/codeoutput"
	defaultTextInput  = "./parquet/files"
	defaultTextOutput = "./parquet/output"
)

// NewCodeCommand tags word positions of source code files.
func NewCodeCommand() *cobra.Command {
	opts := Options{Pipeline: CodePipeline, Format: output.FormatJSON}
	cmd := &cobra.Command{
		Use:           "poscode",
		Short:         "Tag the words of source code stored in parquet files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := Run(cmd.Context(), opts)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Input, "input", defaultCodeInput, "Input directory containing Parquet files")
	cmd.Flags().StringVar(&opts.Output, "output", defaultCodeOutput, "Output directory for tagged JSON lines")
	return cmd
}

// NewTextCommand tags the sentences of natural language text files.
func NewTextCommand() *cobra.Command {
	opts := Options{Pipeline: TextPipeline}
	var format string
	cmd := &cobra.Command{
		Use:           "postext",
		Short:         "Tag the sentences of text stored in parquet files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			opts.Format = f
			_, err = Run(cmd.Context(), opts)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Input, "input", defaultTextInput, "Input directory containing Parquet files")
	cmd.Flags().StringVar(&opts.Output, "output", defaultTextOutput, "Output directory for tagged files")
	cmd.Flags().StringVar(&format, "format", string(output.FormatJSON), "Output format: csv, json or parquet")
	return cmd
}
