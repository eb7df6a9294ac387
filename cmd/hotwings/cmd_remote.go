package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kompox/hotwings/usecase/remote"
)

// newCmdRemote returns the parent command for remote management.
func newCmdRemote() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage remotes stored in config.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newCmdRemoteAdd())
	cmd.AddCommand(newCmdRemoteList())
	cmd.AddCommand(newCmdRemoteRemove())
	cmd.AddCommand(newCmdRemoteDefault())
	return cmd
}

func newCmdRemoteAdd() *cobra.Command {
	var makeDefault bool
	cmd := &cobra.Command{
		Use:     "add NAME URL",
		Aliases: []string{"set"},
		Short:   "Add or update a remote",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildRemoteUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "remote.set", args[0])
			defer func() { cleanup(err) }()
			out, err := u.Set(ctx, &remote.SetInput{Name: args[0], URL: args[1], Default: makeDefault})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Remote %s set to %s%s\n", out.Remote.Name, out.Remote.URL, defaultMark(out.Remote.Default))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&makeDefault, "default", "d", false, "Make this the default remote")
	return cmd
}

func newCmdRemoteList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List remotes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildRemoteUseCase(cmd)
			if err != nil {
				return err
			}
			items, err := u.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No remote is configured. Run 'hotwings remote add NAME URL' to add one.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tURL\tDEFAULT")
			for _, r := range items {
				d := ""
				if r.Default {
					d = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.URL, d)
			}
			return tw.Flush()
		},
	}
}

func newCmdRemoteRemove() *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Remove a remote",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildRemoteUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "remote.delete", args[0])
			defer func() { cleanup(err) }()
			if err := u.Delete(ctx, &remote.DeleteInput{Name: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Remote %s removed\n", args[0])
			return nil
		},
	}
}

func newCmdRemoteDefault() *cobra.Command {
	return &cobra.Command{
		Use:   "default [NAME]",
		Short: "Show or set the default remote",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildRemoteUseCase(cmd)
			if err != nil {
				return err
			}
			in := &remote.DefaultInput{}
			if len(args) > 0 {
				in.Name = args[0]
			}
			out, err := u.Default(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", out.Remote.Name, out.Remote.URL)
			return nil
		},
	}
}

func defaultMark(d bool) string {
	if d {
		return " (default)"
	}
	return ""
}
