package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/services"
	"github.com/kamal-hamza/vocx/pkg/config"
	"github.com/kamal-hamza/vocx/pkg/metrics"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

var (
	exportFormat      string
	exportState       string
	exportTarget      string
	exportWorkers     int
	exportCopy        bool
	exportMetricsFile string
	exportProgress    bool
)

var exportCmd = &cobra.Command{
	Use:   "export [project.vott]",
	Short: "Export a project as a Pascal VOC dataset",
	Long: `Export an annotated project to its target connection.

The dataset contains:
  - JPEGImages/      one image per exported asset
  - Annotations/     one Pascal VOC XML file per asset
  - ImageSets/Main/  <tag>_train.txt and <tag>_val.txt per tag
  - pascal_label_map.pbtxt

Without a project argument, .vott files in the current directory are
offered in a fuzzy finder.

Examples:
  vocx export traffic.vott
  vocx export traffic.vott --state tagged --target ./dataset
  vocx export -w 8 --progress --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format (default from config)")
	exportCmd.Flags().StringVarP(&exportState, "state", "s", "", "Assets to export: all, visited, tagged (default from config)")
	exportCmd.Flags().StringVarP(&exportTarget, "target", "t", "", "Override the project's target path")
	exportCmd.Flags().IntVarP(&exportWorkers, "workers", "w", 0, "Concurrent asset exports (default from config)")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the dataset path to the clipboard")
	exportCmd.Flags().StringVar(&exportMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile (\"state\" for the state dir)")
	exportCmd.Flags().BoolVar(&exportProgress, "progress", false, "Show a live progress spinner")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	projectPath, err := resolveProjectPath(args)
	if err != nil {
		return err
	}
	if projectPath == "" {
		return nil
	}

	req := buildExportRequest(projectPath)

	fmt.Println(ui.FormatRocket("Exporting " + ui.StyleBold.Render(filepath.Base(projectPath)) + "..."))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Format", req.Format))
	fmt.Println(ui.RenderKeyValue("Assets", req.AssetState))
	fmt.Println(ui.RenderKeyValue("Workers", fmt.Sprintf("%d", req.MaxWorkers)))
	fmt.Println()

	var resp *services.ExportResponse
	if exportProgress {
		resp, err = runExportWithSpinner(ctx, cancel, req)
	} else {
		resp, err = exportService.Execute(ctx, req)
	}

	writeMetricsTextfile()

	if err != nil {
		fmt.Println(ui.FormatError("Export failed"))
		if kind := domain.KindOf(err); kind != 0 {
			fmt.Println(ui.FormatMuted("  kind: " + kind.String()))
		}
		return err
	}

	printExportSummary(resp)

	if exportCopy || appConfig.CopyOutputPath {
		if err := clipboard.WriteAll(resp.Result.Root); err != nil {
			fmt.Println(ui.FormatMuted("(Clipboard access failed, please copy manually)"))
		} else {
			fmt.Println(ui.FormatMuted("Dataset path copied to clipboard"))
		}
	}

	return nil
}

func buildExportRequest(projectPath string) services.ExportRequest {
	req := services.ExportRequest{
		ProjectPath: projectPath,
		Format:      appConfig.DefaultExportFormat,
		AssetState:  appConfig.AssetState,
		TargetPath:  exportTarget,
		MaxWorkers:  appConfig.MaxWorkers,
	}
	if exportFormat != "" {
		req.Format = exportFormat
	}
	if exportState != "" {
		req.AssetState = exportState
	}
	if exportWorkers > 0 {
		req.MaxWorkers = exportWorkers
	}
	if req.TargetPath != "" {
		if abs, err := filepath.Abs(req.TargetPath); err == nil {
			req.TargetPath = filepath.ToSlash(abs)
		}
	}
	return req
}

func printExportSummary(resp *services.ExportResponse) {
	result := resp.Result

	fmt.Println(ui.FormatExport("Export completed!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Dataset", result.Root))
	fmt.Println(ui.RenderKeyValue("Assets", fmt.Sprintf("%d of %d", result.AssetsSelected, result.AssetsTotal)))
	fmt.Println(ui.RenderKeyValue("Files", fmt.Sprintf("%d images, %d text", result.BinaryFiles, result.TextFiles)))

	if len(result.Splits) == 0 {
		return
	}

	fmt.Println()
	table := ui.NewTable([]ui.TableColumn{
		{Header: "TAG", Width: 16},
		{Header: "TRAIN", Width: 6, Align: "right"},
		{Header: "VAL", Width: 6, Align: "right"},
	})
	table.MaxWidth = appConfig.TableWidth
	for _, s := range result.Splits {
		table.AddRow([]string{truncate(s.Tag, 30), fmt.Sprintf("%d", s.Train), fmt.Sprintf("%d", s.Val)})
	}
	fmt.Print(table.Render())
}

func writeMetricsTextfile() {
	path := exportMetricsFile
	if path == "" {
		path = appConfig.MetricsTextfile
	}
	if path == "" {
		return
	}
	if path == config.InStateDir && appDirs != nil {
		if err := appDirs.Initialize(); err != nil {
			fmt.Println(ui.FormatWarning("Failed to write metrics: " + err.Error()))
			return
		}
		path = appDirs.MetricsPath()
	}
	if err := metrics.WriteTextfile(path); err != nil {
		fmt.Println(ui.FormatWarning("Failed to write metrics: " + err.Error()))
	}
}

// resolveProjectPath returns the project named in args, or lets the user
// pick one of the .vott files in the working directory. An empty path
// means the picker was cancelled.
func resolveProjectPath(args []string) (string, error) {
	if len(args) > 0 {
		if _, err := os.Stat(args[0]); err != nil {
			return "", fmt.Errorf("project not found: %s", args[0])
		}
		return args[0], nil
	}

	projects, err := findProjectFiles(".")
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		fmt.Println(ui.FormatWarning("No .vott projects found in the current directory"))
		return "", nil
	}
	if len(projects) == 1 {
		return projects[0], nil
	}

	idx, err := fuzzyfinder.Find(
		projects,
		func(i int) string { return projects[i] },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return projectPreview(projects[i])
		}),
	)
	if err != nil {
		// Esc or Ctrl+C in the finder
		return "", nil
	}
	return projects[idx], nil
}

func projectPreview(path string) string {
	ctx, cancel := getContext()
	defer cancel()

	project, err := projectRepo.Load(ctx, path)
	if err != nil {
		return "Unreadable project\n\n" + err.Error()
	}

	counts := make(map[domain.AssetState]int)
	for _, a := range project.Assets {
		counts[a.State]++
	}

	target := "(none)"
	if project.TargetConnection != nil {
		target = project.TargetConnection.Path
	}

	return fmt.Sprintf("Project: %s\n\nTags: %d\nAssets: %d\n  tagged: %d\n  visited: %d\n  not visited: %d\n\nTarget: %s",
		project.Name,
		len(project.Tags),
		len(project.Assets),
		counts[domain.AssetStateTagged],
		counts[domain.AssetStateVisited],
		counts[domain.AssetStateNotVisited],
		target,
	)
}
