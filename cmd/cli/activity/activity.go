package activity

import (
	"github.com/spf13/cobra"

	"github.com/kendoworks/taller/cmd/cli/client"
	"github.com/kendoworks/taller/cmd/cli/output"
	"github.com/kendoworks/taller/cmd/cli/root"
	"github.com/kendoworks/taller/internal/models"
)

func init() {
	root.GetRoot().AddCommand(&cobra.Command{
		Use:   "activity",
		Short: "Show the latest activity log entries (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []models.ActivityEntry
			if err := client.Get("/api/activities", &entries); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{e.Timestamp.String(), e.UserEmail, e.Action, e.Description, e.IPAddress})
			}
			output.RenderTable([]string{"Fecha", "Usuario", "Acción", "Descripción", "IP"}, rows)
			return nil
		},
	})
}
