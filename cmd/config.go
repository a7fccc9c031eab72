package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/vocx/pkg/config"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective vocx configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.RenderKeyValue("Config file", configFilePath()))
		fmt.Println()

		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if _, err := os.Stat(path); err == nil {
			fmt.Println(ui.FormatWarning("Config already exists at " + path))
			return nil
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Config written to " + path))
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the vocx configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()

		// Ensure it exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config file not found at %s (run 'vocx config init')", path)
		}

		fmt.Println(ui.FormatInfo("Opening config: " + path))

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
}

func configFilePath() string {
	if configPathFlag != "" {
		return configPathFlag
	}
	return appDirs.ConfigPath
}
