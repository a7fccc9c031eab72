package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/services"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [project.vott]",
	Short: "Check a project and your vocx setup before exporting",
	Long: `Diagnose issues that would make an export fail.

Checks for:
  - Configuration file existence
  - Project file parsing and validity
  - Target connection and export format
  - Unreadable region files and missing asset files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	fmt.Println(ui.FormatTitle("VOCX Doctor"))
	fmt.Println()

	failed := 0
	check := func(name string, fn func() error) bool {
		if !checkStep(name, fn) {
			failed++
			return false
		}
		return true
	}

	check("Configuration File", func() error {
		path := configFilePath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", path)
		}
		return nil
	})

	check("Export Format", func() error {
		for _, f := range services.Formats() {
			if f.ID == appConfig.DefaultExportFormat {
				return nil
			}
		}
		return fmt.Errorf("%q is not a registered format", appConfig.DefaultExportFormat)
	})

	projectPath, err := resolveProjectPath(args)
	if err != nil {
		return err
	}
	if projectPath == "" {
		return doctorResult(failed)
	}

	var project *domain.Project
	ok := check("Project File", func() error {
		p, err := projectRepo.Load(ctx, projectPath)
		if err != nil {
			return err
		}
		project = p
		return nil
	})
	if !ok {
		return doctorResult(failed)
	}

	check("Project Model", project.Validate)

	check("Target Connection", func() error {
		if project.TargetConnection == nil {
			return fmt.Errorf("not set")
		}
		_, err := storageFactory.ForConnection(ctx, project.TargetConnection)
		return err
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking assets..."))

	metadata, reader := assetSources(projectPath, project)

	check("Region Files", func() error {
		broken := 0
		for _, asset := range project.Assets {
			if _, err := metadata.GetAssetMetadata(ctx, asset); err != nil {
				if broken == 0 {
					fmt.Println()
				}
				fmt.Printf("    %s: %s\n", ui.FormatImage(asset.Name), ui.StyleMuted.Render(err.Error()))
				broken++
			}
		}
		if broken > 0 {
			return fmt.Errorf("found %d unreadable region files", broken)
		}
		return nil
	})

	check("Asset Files", func() error {
		missing := 0
		for _, asset := range project.Assets {
			if _, err := reader.GetAssetArray(ctx, asset); err != nil {
				if missing == 0 {
					fmt.Println()
				}
				fmt.Printf("    %s -> %s (Missing)\n", ui.FormatImage(asset.Name), filepath.Base(asset.Path))
				missing++
			}
		}
		if missing > 0 {
			return fmt.Errorf("found %d unreadable assets", missing)
		}
		return nil
	})

	return doctorResult(failed)
}

func doctorResult(failed int) error {
	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d checks failed", failed)
	}
	fmt.Println(ui.FormatSuccess("All checks passed"))
	return nil
}

// checkStep runs a check function, prints the result nicely and reports success
func checkStep(name string, check func() error) bool {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess(""), name)
		return true
	}
	fmt.Printf("%s %s\n", ui.FormatError(""), name)
	fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	return false
}
