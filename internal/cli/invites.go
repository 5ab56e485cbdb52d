package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskdesk/internal/models"
)

func invitesCmd(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invites",
		Short: "Manage collaboration invitations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List pending invitations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), info)
			if err != nil {
				return err
			}
			defer e.Close()

			token, err := e.token()
			if err != nil {
				return err
			}
			collab := e.store.Collab
			e.run(collab.FetchInvites(token))
			if collab.Err != "" {
				return errors.New(collab.Err)
			}

			out := cmd.OutOrStdout()
			if len(collab.Invites) == 0 {
				fmt.Fprintln(out, "No pending invitations.")
				return nil
			}
			for _, inv := range collab.Invites {
				fmt.Fprintf(out, "%s  %-30s %-7s from %s\n", inv.Token, inviteTitle(inv), inv.Role, inv.FromUser.DisplayName())
			}
			return nil
		},
	}

	resolve := func(use, short, done string, accept bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <token>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := openEnv(cmd.Context(), info)
				if err != nil {
					return err
				}
				defer e.Close()

				token, err := e.token()
				if err != nil {
					return err
				}
				collab := e.store.Collab
				if accept {
					e.run(collab.Accept(token, args[0]))
				} else {
					e.run(collab.Decline(token, args[0]))
				}
				if collab.Err != "" {
					return errors.New(collab.Err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), done)
				return nil
			},
		}
	}

	cmd.AddCommand(list)
	cmd.AddCommand(resolve("accept", "Accept an invitation", "Invitation accepted", true))
	cmd.AddCommand(resolve("decline", "Decline an invitation", "Invitation declined", false))
	return cmd
}

func inviteTitle(inv models.Invite) string {
	if inv.Task != nil && inv.Task.Title != "" {
		return inv.Task.Title
	}
	return "(untitled task)"
}
