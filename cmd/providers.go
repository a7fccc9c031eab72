package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/vocx/internal/core/services"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

var providersCmd = &cobra.Command{
	Use:     "providers",
	Short:   "List the registered export formats",
	Aliases: []string{"formats"},
	Run: func(cmd *cobra.Command, args []string) {
		table := ui.NewTable([]ui.TableColumn{
			{Header: "FORMAT", Width: 20},
			{Header: "DESCRIPTION"},
		})
		table.MaxWidth = appConfig.TableWidth
		for _, f := range services.Formats() {
			id := f.ID
			if id == appConfig.DefaultExportFormat {
				id += " *"
			}
			table.AddRow([]string{id, f.Description})
		}
		fmt.Print(table.Render())
		fmt.Println()
		fmt.Println(ui.FormatMuted("* default format"))
	},
}
