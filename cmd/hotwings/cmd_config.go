package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCmdConfig returns a command that validates config.yml and shows the
// resolved settings.
func newCmdConfig() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Validate config.yml and show the resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if err := s.env.Config.Validate(); err != nil {
				return fmt.Errorf("%s: %w", s.env.ConfigPath, err)
			}
			ttl, err := s.env.StagingTTL()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "home=%s\n", s.env.Home)
			fmt.Fprintf(w, "config=%s\n", s.env.ConfigPath)
			fmt.Fprintf(w, "staging=%s\n", s.env.StagingRoot(flagString(cmd, "staging")))
			fmt.Fprintf(w, "ttl=%s\n", ttl)
			fmt.Fprintf(w, "archiver=%s\n", s.env.ArchiverName())
			fmt.Fprintf(w, "history=%s\n", s.env.HistoryDBURL(flagString(cmd, "history-db")))
			fmt.Fprintf(w, "remotes=%d\n", len(s.env.Config.Remotes))
			return nil
		},
	}
}
