package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pathportal/internal/usecase"
)

type PruneOptions struct {
	*RootOptions
	DryRun bool
}

// PruneResult is the JSON result of prune.
type PruneResult struct {
	DryRun bool                `json:"dryRun"`
	Total  int                 `json:"total"`
	Stale  usecase.PruneReport `json:"stale"`
}

func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PruneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove state for topics missing from the catalog",
		Long: `Prune deletes progress, bookmark and note entries whose topic id is not in
the catalog. The server keeps such entries and ignores them; prune is the only
way they are removed.

Stop the server first when it shares the backend (redis, mongo). A running
server holds the stores in memory and its next save overwrites what prune
wrote.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report stale entries without removing them")

	return cmd
}

func runPrune(opts *PruneOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cat, err := opts.loadCatalog(f)
	if err != nil {
		return err
	}
	sess, err := opts.openSession(cmd.Context(), f)
	if err != nil {
		return err
	}
	defer sess.Close()

	report, err := usecase.PruneState{Adapter: sess.adapter, Catalog: cat, DryRun: opts.DryRun}.Execute(cmd.Context())
	if err != nil {
		return failMaintenance(f, "prune", err)
	}

	if f.Format == "json" {
		return f.Success(PruneResult{DryRun: opts.DryRun, Total: report.Total(), Stale: report})
	}
	if report.Total() == 0 {
		fmt.Fprintln(f.Writer, "✓ No stale entries")
		return nil
	}
	verb := "Removed"
	if opts.DryRun {
		verb = "Would remove"
	}
	fmt.Fprintf(f.Writer, "✓ %s %d stale entr%s\n", verb, report.Total(), plural(report.Total(), "y", "ies"))
	printIDs(f, "progress", report.Progress)
	printIDs(f, "bookmarks", report.Bookmarks)
	printIDs(f, "notes", report.Notes)
	return nil
}

func printIDs(f *OutputFormatter, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(f.Writer, "  %s: %s\n", label, strings.Join(ids, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
