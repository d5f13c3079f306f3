package main

import (
	"github.com/kendoworks/taller/cmd/cli/root"

	// Subcommands register themselves on the root command.
	_ "github.com/kendoworks/taller/cmd/cli/activity"
	_ "github.com/kendoworks/taller/cmd/cli/auth"
	_ "github.com/kendoworks/taller/cmd/cli/requests"
	_ "github.com/kendoworks/taller/cmd/cli/users"
)

func main() {
	root.Execute()
}
