package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamal-hamza/vocx/pkg/ui"
)

// findProjectFiles lists the .vott files in dir, sorted by name
func findProjectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".vott") {
			continue
		}
		projects = append(projects, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(projects)
	return projects, nil
}

// createProgressBar creates an ASCII progress bar
func createProgressBar(percentage float64, width int) string {
	filled := int(percentage / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return ui.StyleAccent.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
