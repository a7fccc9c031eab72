package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/vocx/internal/adapters/repository"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

var watchQuiet bool

var watchCmd = &cobra.Command{
	Use:   "watch [project.vott]",
	Short: "Re-export a project whenever it changes",
	Long: `Watch a project file and its region files (*-asset.json) and
re-run the export after each burst of changes.

Export flags (--format, --state, --target, --workers) apply to every run.
Use --quiet to suppress per-run output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress export notifications")
	watchCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format (default from config)")
	watchCmd.Flags().StringVarP(&exportState, "state", "s", "", "Assets to export: all, visited, tagged")
	watchCmd.Flags().StringVarP(&exportTarget, "target", "t", "", "Override the project's target path")
	watchCmd.Flags().IntVarP(&exportWorkers, "workers", "w", 0, "Concurrent asset exports")
}

// isWatchedFile reports whether a change to name should trigger an export
func isWatchedFile(name, projectPath string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	if filepath.Clean(name) == filepath.Clean(projectPath) {
		return true
	}
	return strings.HasSuffix(base, repository.MetadataSuffix)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	projectPath, err := resolveProjectPath(args)
	if err != nil {
		return err
	}
	if projectPath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watchDirs := []string{filepath.Dir(projectPath)}
	if appConfig.MetadataDir != "" && filepath.Clean(appConfig.MetadataDir) != filepath.Clean(watchDirs[0]) {
		watchDirs = append(watchDirs, appConfig.MetadataDir)
	}
	for _, dir := range watchDirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	if !watchQuiet {
		fmt.Println(ui.FormatRocket("Watching " + ui.StyleBold.Render(filepath.Base(projectPath))))
		for _, dir := range watchDirs {
			fmt.Println(ui.FormatMuted("Watching: " + dir))
		}
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	req := buildExportRequest(projectPath)

	var mu sync.Mutex
	doExport := func() {
		// runs never overlap
		mu.Lock()
		defer mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if !watchQuiet {
			fmt.Println(ui.FormatInfo("Changes detected, exporting..."))
		}

		resp, err := exportService.Execute(ctx, req)
		writeMetricsTextfile()
		if err != nil {
			if !watchQuiet {
				fmt.Println(ui.FormatError("Export failed: " + err.Error()))
			}
			return
		}
		if !watchQuiet {
			fmt.Println(ui.FormatSuccess(fmt.Sprintf("Exported %d assets to %s (%s)",
				resp.Result.AssetsSelected, resp.Result.Root, time.Now().Format("15:04:05"))))
		}
	}

	// Initial export so the dataset matches the project before any edit
	doExport()

	var debounceTimer *time.Timer
	debounceDuration := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond

	// Event loop
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWatchedFile(event.Name, projectPath) {
				continue
			}

			if event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) {

				appLogger.Debug("project change", zap.String("file", event.Name), zap.Stringer("op", event.Op))

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, doExport)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLogger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watcher stopped"))
			}
			return nil
		}
	}
}
