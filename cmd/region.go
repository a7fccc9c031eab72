package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/vocx/internal/core/services"
)

var regionCmd = &cobra.Command{
	Use:   "region [command]",
	Short: "Copy or delete regions drawn over assets",
	Long: `Edit the regions stored next to a project.

Assets are named by id or by file name.`,
}

var regionCopyCmd = &cobra.Command{
	Use:   "copy [project.vott] [from-asset] [to-asset]",
	Short: "Copy every region of one asset onto another",
	Long: `Copy every region of one asset onto another.

Copies get new ids. A copy landing on an existing region is shifted
diagonally until it sits free.`,
	Example: `  vocx region copy traffic.vott frame_001.jpg frame_002.jpg`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editTags(args[0], func(svc *services.RegionService, path string) (*services.EditResult, error) {
			ctx, cancel := getContext()
			defer cancel()
			return svc.CopyRegions(ctx, path, args[1], args[2])
		}, fmt.Sprintf("Copied regions of %s to %s", args[1], args[2]))
	},
}

var regionDeleteCmd = &cobra.Command{
	Use:     "delete [project.vott] [asset] [region-id]",
	Aliases: []string{"rm"},
	Short:   "Delete one region from an asset",
	Example: `  vocx region delete traffic.vott frame_001.jpg 3fa4c1`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editTags(args[0], func(svc *services.RegionService, path string) (*services.EditResult, error) {
			ctx, cancel := getContext()
			defer cancel()
			return svc.DeleteRegion(ctx, path, args[1], args[2])
		}, fmt.Sprintf("Deleted region %s", args[2]))
	},
}

func init() {
	regionCmd.AddCommand(regionCopyCmd)
	regionCmd.AddCommand(regionDeleteCmd)
}
