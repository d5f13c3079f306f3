package requests

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kendoworks/taller/cmd/cli/client"
	"github.com/kendoworks/taller/cmd/cli/output"
	"github.com/kendoworks/taller/cmd/cli/root"
	"github.com/kendoworks/taller/internal/models"
)

func init() {
	requestsCmd := &cobra.Command{
		Use:   "requests",
		Short: "List repair requests and update their status",
	}
	requestsCmd.AddCommand(listCmd(), setStatusCmd())
	root.GetRoot().AddCommand(requestsCmd)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List repair requests (admins see all, clients their own)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var reqs []models.RepairRequest
			if err := client.Get("/api/requests", &reqs); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(reqs))
			for _, r := range reqs {
				rows = append(rows, []interface{}{r.ID, r.UserEmail, r.EquipmentType, r.Status, r.CreatedAt.String()})
			}
			output.RenderTable([]string{"ID", "Cliente", "Equipo", "Estado", "Creada"}, rows)
			return nil
		},
	}
}

func setStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Update a request's status (admin only)",
		Long:  "Set a repair request to one of: pendiente, en_proceso, completado, cancelado.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}
			status := args[1]
			if !models.ValidStatus(status) {
				return fmt.Errorf("invalid status %q (valid: pendiente, en_proceso, completado, cancelado)", status)
			}

			var out struct {
				Success   bool   `json:"success"`
				NewStatus string `json:"new_status"`
				Message   string `json:"message"`
			}
			if err := client.PostJSON(fmt.Sprintf("/update_status/%d", id), map[string]string{"status": status}, &out); err != nil {
				return err
			}
			fmt.Println(out.Message)
			return nil
		},
	}
}
