package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pathportal/internal/usecase"
)

type ImportOptions struct {
	*RootOptions
	Replace bool
}

func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load learner state from an export document",
		Long: `Import reads a document produced by export ("-" reads stdin) and writes it
to the backend. Entries are merged into the stored state unless --replace is
given. Progress values are clamped to 0..100 and bookmarks are de-duplicated.

Stop the server first when it shares the backend (redis, mongo). A running
server holds the stores in memory and its next save overwrites what import
wrote.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "discard stored state before importing")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	doc, err := readExport(path, cmd.InOrStdin())
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeInput, fmt.Sprintf("read %s", path), err)
	}

	sess, err := opts.openSession(cmd.Context(), f)
	if err != nil {
		return err
	}
	defer sess.Close()

	report, err := usecase.ImportState{Adapter: sess.adapter, Replace: opts.Replace}.Execute(cmd.Context(), doc)
	if err != nil {
		return failMaintenance(f, "import", err)
	}

	if f.Format == "json" {
		return f.Success(report)
	}
	mode := "Merged"
	if opts.Replace {
		mode = "Replaced with"
	}
	fmt.Fprintf(f.Writer, "✓ %s %d progress, %d bookmark(s), %d note(s)\n",
		mode, report.Progress, report.Bookmarks, report.Notes)
	return nil
}

func readExport(path string, stdin io.Reader) (usecase.ExportDocument, error) {
	if path == "-" {
		return usecase.DecodeExport(stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return usecase.ExportDocument{}, err
	}
	defer file.Close()
	return usecase.DecodeExport(file)
}
