package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pathportal/internal/store"
	"pathportal/internal/usecase"
)

func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Print learner statistics for the catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
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

	stats := usecase.GetStats{Catalog: cat, State: store.NewState(sess.adapter)}.Execute()

	if f.Format == "json" {
		return f.Success(stats)
	}
	w := f.Writer
	fmt.Fprintf(w, "Topics:       %d\n", stats.TotalTopics)
	fmt.Fprintf(w, "Videos:       %d (%s)\n", stats.TotalVideos, stats.TotalDuration)
	fmt.Fprintf(w, "In progress:  %d\n", stats.InProgress)
	fmt.Fprintf(w, "Completed:    %d\n", stats.Completed)
	fmt.Fprintf(w, "Bookmarked:   %d\n", stats.Bookmarked)
	fmt.Fprintf(w, "Notes:        %d (%d words)\n", stats.WithNotes, stats.NoteWords)
	return nil
}
