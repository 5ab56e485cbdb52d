package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/validate"
)

func loginCmd(info BuildInfo) *cobra.Command {
	var email, password string
	var remember bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), info)
			if err != nil {
				return err
			}
			defer e.Close()

			auth := e.store.Auth
			e.run(auth.Login(validate.LoginInput{Email: email, Password: password, Remember: remember}))
			if auth.Op.Status == store.Failed {
				return errors.New(auth.Op.Err)
			}
			name := auth.Session.DisplayName
			if name == "" {
				name = auth.Session.Email
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&remember, "remember", true, "Ask the backend for a long-lived session")
	return cmd
}

func logoutCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), info)
			if err != nil {
				return err
			}
			defer e.Close()

			if _, err := e.token(); err != nil {
				return err
			}
			auth := e.store.Auth
			e.run(auth.Logout())
			if auth.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), auth.Message)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			}
			return nil
		},
	}
}
