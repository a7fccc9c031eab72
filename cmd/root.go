package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/vocx/internal/adapters/reader"
	"github.com/kamal-hamza/vocx/internal/adapters/repository"
	"github.com/kamal-hamza/vocx/internal/adapters/storage"
	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
	"github.com/kamal-hamza/vocx/internal/core/services"
	"github.com/kamal-hamza/vocx/pkg/appdirs"
	"github.com/kamal-hamza/vocx/pkg/config"
	"github.com/kamal-hamza/vocx/pkg/logging"
	"github.com/kamal-hamza/vocx/pkg/ui"
)

var (
	// Global state
	appDirs   *appdirs.Dirs
	appConfig *config.Config
	appLogger *zap.Logger

	// Services
	exportService *services.ExportService
	statsService  *services.StatsService
	regionService *services.RegionService

	// Repositories
	projectRepo    *repository.ProjectRepository
	storageFactory *storage.Factory

	// Global flags
	configPathFlag string
	logLevelFlag   string
	logFormatFlag  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vocx",
	Short: "VOCX - Export annotated image projects to Pascal VOC",
	Long: ui.StyleTitle.Render("VOCX") + " - Pascal VOC dataset exporter\n\n" +
		"Turns VoTT annotation projects (.vott) into Pascal VOC datasets:\n" +
		"JPEG images, XML annotations, a label map and per-tag train/val splits.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			_ = appLogger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Config file (default is $XDG_CONFIG_HOME/vocx/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// version needs nothing
	if cmd.Name() == "version" {
		return nil
	}

	d, err := appdirs.New()
	if err != nil {
		return fmt.Errorf("failed to resolve application directories: %w", err)
	}
	appDirs = d

	configPath := appDirs.ConfigPath
	if configPathFlag != "" {
		configPath = configPathFlag
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg

	ui.SetTheme(appConfig.ColorTheme)

	logCfg := appConfig.Logging
	if logLevelFlag != "" {
		logCfg.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		logCfg.Format = logFormatFlag
	}
	if logCfg.OutputPath == config.InStateDir || appConfig.MetricsTextfile == config.InStateDir {
		if err := appDirs.Initialize(); err != nil {
			return err
		}
	}
	if logCfg.OutputPath == config.InStateDir {
		logCfg.OutputPath = appDirs.LogPath()
	}
	if appConfig.MetricsTextfile == config.InStateDir {
		appConfig.MetricsTextfile = appDirs.MetricsPath()
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	appLogger = logger

	// Initialize repositories
	projectRepo = repository.NewProjectRepository()
	storageFactory = storage.NewFactory(s3Defaults(appConfig.S3), appLogger)

	// Initialize services
	exportService = services.NewExportService(projectRepo, storageFactory, assetSources, appLogger)
	statsService = services.NewStatsService(projectRepo, assetSources)
	regionService = services.NewRegionService(projectRepo, metadataStore, appLogger)

	return nil
}

func s3Defaults(s config.S3Settings) storage.S3Config {
	return storage.S3Config{
		Endpoint:        s.Endpoint,
		Region:          s.Region,
		Bucket:          s.Bucket,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		UseSSL:          s.UseSSL,
	}
}

// assetSources reads region files next to the project (or from the
// configured metadata dir) and resolves relative asset paths against the
// source connection
func assetSources(projectPath string, project *domain.Project) (ports.AssetMetadataSource, ports.AssetBinaryReader) {
	projectDir := filepath.Dir(projectPath)

	baseDir := projectDir
	if project.SourceConnection != nil && project.SourceConnection.Path != "" {
		baseDir = filepath.FromSlash(project.SourceConnection.Path)
	}

	timeout := 30 * time.Second
	if appConfig != nil {
		timeout = time.Duration(appConfig.HTTPTimeoutSeconds) * time.Second
	}

	return metadataStore(projectPath, project), reader.NewAssetReader(baseDir, timeout)
}

// metadataStore opens the region files of a project for reading and editing
func metadataStore(projectPath string, _ *domain.Project) ports.AssetMetadataStore {
	metadataDir := filepath.Dir(projectPath)
	if appConfig != nil && appConfig.MetadataDir != "" {
		metadataDir = appConfig.MetadataDir
	}
	return repository.NewMetadataRepository(metadataDir)
}

// getContext returns a context cancelled on Ctrl+C
func getContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
