package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/api"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/config"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/manager"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/memory"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/metrics"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vectoriadb",
	Short: "VectoriaDB - vector database service",
	Long: `VectoriaDB is a vector database: a server that accepts uploads of
high-dimensional float vectors, builds approximate-nearest-neighbour
indexes over them, and answers k-nearest-neighbour queries.

The server runs in one of two modes: build mode accepts index creation,
uploads and build triggers; search mode serves queries. Swapping modes
drains in-flight work first.`,
	Version: Version,
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"VectoriaDB version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	// Initialize logging before command execution
	cobra.OnInitialize(initLogging)

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statusCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the VectoriaDB server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", ":9440", "gRPC listen address")
	serveCmd.Flags().String("health-listen", ":8080", "HTTP health/metrics listen address")
	serveCmd.Flags().String("base-path", "", "Base path override (default from config, else .)")
	serveCmd.Flags().String("config", "", "Config file (default <base-path>/config/vectoriadb.yml)")
	serveCmd.Flags().Int("dimensions", 0, "Vector dimensionality override")
	serveCmd.Flags().String("default-mode", "", "Initial mode override (build or search)")
}

func runServe(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")
	healthListen, _ := cmd.Flags().GetString("health-listen")
	basePath, _ := cmd.Flags().GetString("base-path")
	configPath, _ := cmd.Flags().GetString("config")
	dimensions, _ := cmd.Flags().GetInt("dimensions")
	defaultMode, _ := cmd.Flags().GetString("default-mode")

	cfg, err := loadConfig(basePath, configPath)
	if err != nil {
		return err
	}

	// Flag overrides
	if basePath != "" {
		cfg.VectoriaDB.Server.BasePath = basePath
	}
	if dimensions > 0 {
		cfg.VectoriaDB.Index.Dimensions = dimensions
	}
	if defaultMode != "" {
		cfg.VectoriaDB.Server.DefaultMode = config.Mode(defaultMode)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	budgets, err := memory.Compute(cfg.BuildingMaxMemory(), cfg.DiskCacheMemory())
	if err != nil {
		return fmt.Errorf("failed to size memory pools: %w", err)
	}
	log.Logger.Info().
		Int64("available_ram", budgets.AvailableRAM).
		Int64("index_building", budgets.IndexBuilding).
		Int64("disk_cache", budgets.DiskCache).
		Msg("Memory pools sized")

	mgr, err := manager.NewManager(&manager.Config{Config: cfg, Budgets: budgets})
	if err != nil {
		return fmt.Errorf("failed to create index manager: %w", err)
	}

	collector := metrics.NewCollector(mgr.Catalog(), 0)
	collector.Start()
	defer collector.Stop()

	healthServer := api.NewHealthServer(Version)
	go func() {
		if err := healthServer.Start(healthListen); err != nil {
			log.Logger.Error().Err(err).Msg("Health server stopped")
		}
	}()

	server := api.NewServer(mgr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(listen)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Logger.Info().Str("signal", sig.String()).Msg("Shutting down")
		server.Stop()
		mgr.Close()
		return nil
	case err := <-errCh:
		mgr.Close()
		return err
	}
}

func loadConfig(basePath, configPath string) (*config.Config, error) {
	if configPath == "" {
		root := basePath
		if root == "" {
			root = "."
		}
		configPath = filepath.Join(root, "config", "vectoriadb.yml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			// No config file: flags must carry the required keys.
			return config.Default(), nil
		}
	}
	return config.Load(configPath)
}
