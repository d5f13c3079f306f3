package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kendoworks/taller/cmd/cli/client"
	"github.com/kendoworks/taller/cmd/cli/config"
	"github.com/kendoworks/taller/cmd/cli/root"
)

func init() {
	root.GetRoot().AddCommand(loginCmd(), logoutCmd())
}

// loginCmd authenticates against the API and stores the token locally.
func loginCmd() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the workshop API",
		Long:  "Authenticate with the workshop API and store a session token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			var out struct {
				Token string `json:"token"`
				User  struct {
					Email string `json:"email"`
					Role  string `json:"role"`
				} `json:"user"`
			}
			if err := client.PostJSON("/api/login", map[string]string{
				"email":    email,
				"password": password,
			}, &out); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if out.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}

			fmt.Printf("Login successful as %s (%s). Token stored locally.\n", out.User.Email, out.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
