package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamal-hamza/vocx/internal/adapters/repository"
	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/services"
	"github.com/kamal-hamza/vocx/pkg/config"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{"export", "watch", "stats", "tag", "region", "doctor", "providers", "config", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd == nil {
				t.Fatalf("Command '%s' is nil", cmdName)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "vocx" {
		t.Errorf("Expected root command Use to be 'vocx', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

func TestExportFlags(t *testing.T) {
	for _, name := range []string{"format", "state", "target", "workers", "copy", "metrics-file", "progress"} {
		if exportCmd.Flags().Lookup(name) == nil {
			t.Errorf("export is missing --%s", name)
		}
	}
	if f := exportCmd.Flags().ShorthandLookup("w"); f == nil || f.Name != "workers" {
		t.Error("expected -w to be --workers")
	}
}

func TestBuildExportRequest(t *testing.T) {
	appConfig = config.DefaultConfig()
	appConfig.AssetState = "visited"
	appConfig.MaxWorkers = 6
	t.Cleanup(func() {
		appConfig = nil
		exportFormat, exportState, exportTarget, exportWorkers = "", "", "", 0
	})

	req := buildExportRequest("p.vott")
	if req.Format != config.DefaultFormat || req.AssetState != "visited" || req.MaxWorkers != 6 {
		t.Errorf("config values not applied: %+v", req)
	}

	exportState = "tagged"
	exportWorkers = 2
	exportTarget = "out"
	req = buildExportRequest("p.vott")
	if req.AssetState != "tagged" || req.MaxWorkers != 2 {
		t.Errorf("flags did not override config: %+v", req)
	}
	if !filepath.IsAbs(filepath.FromSlash(req.TargetPath)) {
		t.Errorf("expected absolute target, got %q", req.TargetPath)
	}
}

func TestIsWatchedFile(t *testing.T) {
	project := filepath.Join("data", "traffic.vott")

	tests := []struct {
		name     string
		file     string
		expected bool
	}{
		{"project file", project, true},
		{"region file", filepath.Join("data", "abc"+repository.MetadataSuffix), true},
		{"other project", filepath.Join("data", "other.vott"), false},
		{"image", filepath.Join("data", "a.jpg"), false},
		{"editor swap", filepath.Join("data", ".abc-asset.json.swp"), false},
		{"hidden region file", filepath.Join("data", ".abc"+repository.MetadataSuffix), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWatchedFile(tt.file, project); got != tt.expected {
				t.Errorf("isWatchedFile(%q) = %v, want %v", tt.file, got, tt.expected)
			}
		})
	}
}

func TestFindProjectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.vott", "a.VOTT", "c.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "d.vott"), 0755); err != nil {
		t.Fatal(err)
	}

	projects, err := findProjectFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %v", projects)
	}
	if filepath.Base(projects[0]) != "a.VOTT" || filepath.Base(projects[1]) != "b.vott" {
		t.Errorf("unexpected order: %v", projects)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a much longer asset name.jpg", 10, "a much ..."},
		{"abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.expected)
		}
	}
}

func TestCreateProgressBar(t *testing.T) {
	for _, pct := range []float64{-5, 0, 50, 100, 150} {
		bar := createProgressBar(pct, 10)
		if n := strings.Count(bar, "█") + strings.Count(bar, "░"); n != 10 {
			t.Errorf("createProgressBar(%v) has %d cells, want 10", pct, n)
		}
	}
}

func TestAssetSources(t *testing.T) {
	appConfig = config.DefaultConfig()
	t.Cleanup(func() { appConfig = nil })

	dir := t.TempDir()
	images := filepath.Join(dir, "images")
	if err := os.MkdirAll(images, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(images, "a.jpg"), []byte{9}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a"+repository.MetadataSuffix), []byte(`{"regions":[{"id":"r","tags":["car"]}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	project := &domain.Project{
		SourceConnection: &domain.Connection{Path: filepath.ToSlash(images)},
	}
	asset := domain.Asset{ID: "a", Name: "a.jpg", Path: "a.jpg"}

	metadata, reader := assetSources(filepath.Join(dir, "p.vott"), project)

	meta, err := metadata.GetAssetMetadata(context.Background(), asset)
	if err != nil {
		t.Fatalf("unexpected metadata error: %v", err)
	}
	if len(meta.Regions) != 1 {
		t.Errorf("expected 1 region, got %d", len(meta.Regions))
	}

	data, err := reader.GetAssetArray(context.Background(), asset)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if len(data) != 1 || data[0] != 9 {
		t.Errorf("unexpected asset bytes: %v", data)
	}
}

func TestExportProgressModel(t *testing.T) {
	updates := make(chan services.ExportProgress, 1)
	cancelled := false
	m := newExportProgressModel(updates, func() { cancelled = true })

	if !strings.Contains(m.View(), "Preparing") {
		t.Errorf("expected preparing view, got %q", m.View())
	}

	next, cmd := m.Update(progressMsg{Current: 1, Total: 4, Asset: "one.jpg"})
	if cmd == nil {
		t.Error("expected a command waiting for the next update")
	}
	view := next.View()
	if !strings.Contains(view, "[1/4]") || !strings.Contains(view, "one.jpg") {
		t.Errorf("unexpected view: %q", view)
	}

	next, _ = next.Update(progressDoneMsg{})
	if next.View() != "" {
		t.Errorf("expected empty view when finished, got %q", next.View())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !cancelled {
		t.Error("expected ctrl+c to cancel the export")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestRenderTagChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.html")
	resp := &services.StatsResponse{
		Project: "Traffic",
		Total:   3,
		Regions: 5,
		Tags: []services.TagUsage{
			{Tag: "car", Regions: 4, Assets: 2},
			{Tag: "bus", Regions: 1, Assets: 1},
		},
	}

	if err := renderTagChart(path, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if !strings.Contains(string(data), "Traffic") {
		t.Error("chart should contain the project name")
	}
}

func TestEditSubcommands(t *testing.T) {
	tests := []struct {
		path []string
		args int
	}{
		{[]string{"tag", "rename"}, 3},
		{[]string{"tag", "delete"}, 2},
		{[]string{"tag", "toggle"}, 4},
		{[]string{"region", "copy"}, 3},
		{[]string{"region", "delete"}, 3},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, " "), func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.path)
			if err != nil || cmd.Name() != tt.path[1] {
				t.Fatalf("command not found: %v", err)
			}
			if err := cmd.Args(cmd, make([]string, tt.args-1)); err == nil {
				t.Errorf("expected %d args to be required", tt.args)
			}
			if err := cmd.Args(cmd, make([]string, tt.args)); err != nil {
				t.Errorf("unexpected args error: %v", err)
			}
		})
	}
}

func TestTagRenameOnDisk(t *testing.T) {
	appConfig = config.DefaultConfig()
	prev := regionService
	regionService = services.NewRegionService(repository.NewProjectRepository(), metadataStore, nil)
	t.Cleanup(func() {
		appConfig = nil
		regionService = prev
	})

	dir := t.TempDir()
	projectPath := filepath.Join(dir, "traffic.vott")
	project := `{"name":"Traffic","tags":[{"name":"car","color":"#f00"}],` +
		`"assets":{"b":{"id":"b","name":"b.jpg","state":2},"a":{"id":"a","name":"a.jpg","state":2}}}`
	if err := os.WriteFile(projectPath, []byte(project), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a"+repository.MetadataSuffix), []byte(`{"regions":[{"id":"r","tags":["car"]}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := tagRenameCmd.RunE(tagRenameCmd, []string{projectPath, "car", "vehicle"}); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	loaded, err := repository.NewProjectRepository().Load(context.Background(), projectPath)
	if err != nil {
		t.Fatalf("failed to reload project: %v", err)
	}
	if names := loaded.TagNames(); len(names) != 1 || names[0] != "vehicle" {
		t.Errorf("expected tag renamed in project, got %v", names)
	}
	if loaded.Assets[0].ID != "b" {
		t.Errorf("expected asset order kept, got %s first", loaded.Assets[0].ID)
	}

	meta, err := metadataStore(projectPath, loaded).GetAssetMetadata(context.Background(), domain.Asset{ID: "a"})
	if err != nil {
		t.Fatalf("failed to read regions: %v", err)
	}
	if len(meta.Regions) != 1 || meta.Regions[0].Tags[0] != "vehicle" {
		t.Errorf("expected region retagged, got %+v", meta.Regions)
	}
}
