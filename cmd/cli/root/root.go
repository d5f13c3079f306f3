package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "taller",
	Short: "Taller Kendo CLI",
	Long:  "Command line interface for the Taller Kendo repair workshop API",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the root command so subpackages can register themselves.
func GetRoot() *cobra.Command {
	return RootCmd
}
