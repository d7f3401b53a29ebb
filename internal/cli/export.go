package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pathportal/internal/usecase"
)

type ExportOptions struct {
	*RootOptions
	Output string
}

// ExportSummary is the JSON result of an export written to a file.
type ExportSummary struct {
	Path      string `json:"path"`
	Progress  int    `json:"progress"`
	Bookmarks int    `json:"bookmarks"`
	Notes     int    `json:"notes"`
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored learner state as a JSON document",
		Long: `Export reads the progress, bookmark and note documents from the backend
and writes them as one JSON document. Without --output the document goes to
stdout. A stored document that does not decode fails the export.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	sess, err := opts.openSession(ctx, f)
	if err != nil {
		return err
	}
	defer sess.Close()

	doc, err := usecase.ExportState{Backend: sess.backend}.Execute(ctx)
	if err != nil {
		return failMaintenance(f, "export", err)
	}

	if opts.Output == "" {
		return writeExport(cmd.OutOrStdout(), doc)
	}

	if err := writeExportFile(opts.Output, doc); err != nil {
		return f.fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("write %s", opts.Output), err)
	}
	summary := ExportSummary{
		Path:      opts.Output,
		Progress:  len(doc.Progress),
		Bookmarks: len(doc.Bookmarks),
		Notes:     len(doc.Notes),
	}
	if f.Format == "json" {
		return f.Success(summary)
	}
	fmt.Fprintf(f.Writer, "✓ Exported %d progress, %d bookmark(s), %d note(s) to %s\n",
		summary.Progress, summary.Bookmarks, summary.Notes, summary.Path)
	return nil
}

func writeExport(w io.Writer, doc usecase.ExportDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeExportFile(path string, doc usecase.ExportDocument) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeExport(file, doc); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
