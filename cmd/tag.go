package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/vocx/internal/core/services"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

var tagCmd = &cobra.Command{
	Use:   "tag [command]",
	Short: "Rename, delete or toggle tags in a project",
	Long: `Edit project tags without opening the labeling tool.

Changes are written to the project file and to the region files of
every affected asset.`,
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename [project.vott] [from] [to]",
	Short: "Rename a tag everywhere it is used",
	Example: `  vocx tag rename traffic.vott car vehicle
  vocx tag rename traffic.vott sedan car   # merges sedan into car`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editTags(args[0], func(svc *services.RegionService, path string) (*services.EditResult, error) {
			ctx, cancel := getContext()
			defer cancel()
			return svc.RenameTag(ctx, path, args[1], args[2])
		}, fmt.Sprintf("Renamed '%s' to '%s'", args[1], args[2]))
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:     "delete [project.vott] [tag]",
	Aliases: []string{"rm"},
	Short:   "Delete a tag from the project and its regions",
	Example: `  vocx tag delete traffic.vott bicycle`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editTags(args[0], func(svc *services.RegionService, path string) (*services.EditResult, error) {
			ctx, cancel := getContext()
			defer cancel()
			return svc.DeleteTag(ctx, path, args[1])
		}, fmt.Sprintf("Deleted '%s'", args[1]))
	},
}

var tagToggleCmd = &cobra.Command{
	Use:   "toggle [project.vott] [asset] [region-id] [tag]",
	Short: "Add a tag to a region, or remove it if present",
	Example: `  vocx tag toggle traffic.vott frame_001.jpg 3fa4c1 car
  vocx tag toggle traffic.vott 8d0e1b... 3fa4c1 "parked car"`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editTags(args[0], func(svc *services.RegionService, path string) (*services.EditResult, error) {
			ctx, cancel := getContext()
			defer cancel()
			return svc.ToggleTag(ctx, path, args[1], args[2], args[3])
		}, fmt.Sprintf("Toggled '%s' on region %s", args[3], args[2]))
	},
}

func init() {
	tagCmd.AddCommand(tagRenameCmd)
	tagCmd.AddCommand(tagDeleteCmd)
	tagCmd.AddCommand(tagToggleCmd)
}

type regionEdit func(svc *services.RegionService, projectPath string) (*services.EditResult, error)

// editTags runs one edit against a project and prints what changed
func editTags(projectArg string, edit regionEdit, done string) error {
	projectPath, err := resolveProjectPath([]string{projectArg})
	if err != nil {
		return err
	}

	res, err := edit(regionService, projectPath)
	if err != nil {
		fmt.Println(ui.FormatError("Edit failed"))
		return err
	}

	if res.Assets == 0 && res.Regions == 0 && res.Tags == nil {
		fmt.Println(ui.FormatInfo("No changes."))
		return nil
	}

	fmt.Println(ui.FormatSuccess(done))
	fmt.Println(ui.RenderKeyValue("Assets", fmt.Sprintf("%d", res.Assets)))
	fmt.Println(ui.RenderKeyValue("Regions", fmt.Sprintf("%d", res.Regions)))
	if len(res.Tags) > 0 {
		formatted := make([]string, 0, len(res.Tags))
		for _, t := range res.Tags {
			formatted = append(formatted, ui.FormatTag(t))
		}
		fmt.Println(ui.RenderKeyValue("Tags", strings.Join(formatted, " ")))
	}
	return nil
}
