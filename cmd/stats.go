package cmd

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/services"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

var (
	statsChart  string
	statsByName bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [project.vott]",
	Short: "Show asset and tag statistics for a project",
	Long: `Analyze a project and display annotation statistics.

Includes:
  - Asset counts by state
  - Regions and assets per tag
  - Tags used by regions but missing from the project

Use --chart to also write an HTML bar chart of tag usage.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsChart, "chart", "", "Write an HTML bar chart of tag usage to this file")
	statsCmd.Flags().BoolVar(&statsByName, "by-name", false, "Keep tags in project order instead of sorting by usage")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	projectPath, err := resolveProjectPath(args)
	if err != nil {
		return err
	}
	if projectPath == "" {
		return nil
	}

	req := services.StatsRequest{ProjectPath: projectPath}
	if statsByName {
		req.SortBy = "name"
	}

	fmt.Println(ui.FormatRocket("Analyzing project..."))
	fmt.Println()

	resp, err := statsService.Execute(ctx, req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to analyze project"))
		return err
	}

	fmt.Println(ui.FormatTitle(resp.Project))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Assets", fmt.Sprintf("%d", resp.Total)))
	for _, state := range []domain.AssetState{domain.AssetStateTagged, domain.AssetStateVisited, domain.AssetStateNotVisited} {
		fmt.Println(ui.RenderKeyValue("  "+ui.FormatAssetState(state.String()), fmt.Sprintf("%d", resp.Assets[state])))
	}
	fmt.Println(ui.RenderKeyValue("Regions", fmt.Sprintf("%d", resp.Regions)))
	fmt.Println()

	if len(resp.Tags) == 0 {
		fmt.Println(ui.FormatWarning("Project has no tags"))
		return nil
	}

	maxRegions := 0
	for _, t := range resp.Tags {
		if t.Regions > maxRegions {
			maxRegions = t.Regions
		}
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "TAG", Width: 16},
		{Header: "REGIONS", Width: 7, Align: "right"},
		{Header: "ASSETS", Width: 6, Align: "right"},
		{Header: "", Width: 20},
	})
	table.MaxWidth = appConfig.TableWidth
	for _, t := range resp.Tags {
		percentage := 0.0
		if maxRegions > 0 {
			percentage = float64(t.Regions) / float64(maxRegions) * 100
		}
		table.AddRow([]string{
			truncate(t.Tag, 30),
			fmt.Sprintf("%d", t.Regions),
			fmt.Sprintf("%d", t.Assets),
			createProgressBar(percentage, 20),
		})
	}
	fmt.Print(table.Render())

	var unused []string
	for _, t := range resp.Tags {
		if t.Regions == 0 {
			unused = append(unused, ui.FormatTag(t.Tag))
		}
	}
	if len(unused) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatMuted("Tags without regions:"))
		fmt.Print(ui.RenderSimpleList(unused))
	}

	if statsChart != "" {
		if err := renderTagChart(statsChart, resp); err != nil {
			fmt.Println(ui.FormatError("Failed to write chart"))
			return err
		}
		fmt.Println()
		fmt.Println(ui.FormatSuccess("Chart written to " + statsChart))
	}

	return nil
}

// renderTagChart writes a bar chart of regions and assets per tag
func renderTagChart(path string, resp *services.StatsResponse) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    resp.Project,
			Subtitle: fmt.Sprintf("%d assets, %d regions", resp.Total, resp.Regions),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(resp.Tags))
	regions := make([]opts.BarData, 0, len(resp.Tags))
	assets := make([]opts.BarData, 0, len(resp.Tags))
	for _, t := range resp.Tags {
		names = append(names, t.Tag)
		regions = append(regions, opts.BarData{Value: t.Regions})
		assets = append(assets, opts.BarData{Value: t.Assets})
	}

	bar.SetXAxis(names).
		AddSeries("Regions", regions).
		AddSeries("Assets", assets)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return bar.Render(f)
}
