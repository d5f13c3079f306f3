package users

import (
	"github.com/spf13/cobra"

	"github.com/kendoworks/taller/cmd/cli/client"
	"github.com/kendoworks/taller/cmd/cli/output"
	"github.com/kendoworks/taller/cmd/cli/root"
	"github.com/kendoworks/taller/internal/models"
)

func init() {
	root.GetRoot().AddCommand(&cobra.Command{
		Use:   "users",
		Short: "List registered accounts (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var accounts []models.User
			if err := client.Get("/api/users", &accounts); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(accounts))
			for _, u := range accounts {
				rows = append(rows, []interface{}{u.ID, u.Email, u.Role, u.CreatedAt.String()})
			}
			output.RenderTable([]string{"ID", "Email", "Rol", "Creado"}, rows)
			return nil
		},
	})
}
