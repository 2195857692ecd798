package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pixlab/core"
	"pixlab/db"
	"pixlab/kernel"
	"pixlab/logging"
	"pixlab/metrics"
	"pixlab/shutdown"
	"pixlab/transform"
	"pixlab/webapi"
)

func main() {
	// Service management verbs (install/uninstall/start/stop/...) are
	// handled before anything else; they run and exit on their own.
	if HandleServiceCommand(os.Args) {
		return
	}

	showVersion := flag.Bool("version", false, "Print version information and exit")
	validateOnly := flag.Bool("validate", false, "Run startup checks and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(core.GetVersionInfo())
		return
	}

	if !*validateOnly {
		// On Windows this blocks for the lifetime of the service; on other
		// platforms it reports false immediately.
		asService, err := RunAsService()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(core.ExitCodeError)
		}
		if asService {
			return
		}
	}

	os.Exit(runServer(context.Background(), *validateOnly))
}

// runServer is the whole service lifecycle: startup checks, component
// construction, serving, and graceful shutdown. It returns the process exit
// code. The parent context lets the Windows service wrapper request a stop;
// interactive runs pass a background context and stop on OS signals.
func runServer(ctx context.Context, validateOnly bool) int {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	// Determine if running in development mode
	isDevelopment := os.Getenv("DEV_MODE") == "true"

	// Initialize structured logger early. The log file default mirrors the
	// configuration default, but the logger has to exist before the
	// configuration is validated so failures have somewhere to go.
	logFile := os.Getenv("PIXLAB_LOG_FILE")
	if logFile == "" {
		dataDir := core.GetEnvOrDefault("PIXLAB_DATA_DIR", core.DefaultDataDir)
		logFile = filepath.Join(dataDir, "logs", "pixlab.log")
	}

	logger, err := logging.NewLogger(isDevelopment, logFile)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}

	// Run startup checks before heavy operations
	preflight := core.NewPreflight()
	preflight.
		WithCheck("Presets File", func() (core.CheckStatus, string, error) {
			return checkPresets(preflight.Config())
		}).
		WithCheck("Database", func() (core.CheckStatus, string, error) {
			return checkDatabase(preflight.Config())
		})

	result := preflight.Run()
	if !result.Success {
		logger.Error("Startup checks failed",
			zap.Int("passed", result.PassedChecks),
			zap.Int("failed", result.FailedChecks),
			zap.Duration("duration", result.Duration),
		)
		for _, check := range result.Checks {
			if check.Status == core.CheckFailed {
				logger.Error("Startup check failed",
					zap.String("check", check.Name),
					zap.String("message", check.Message),
					zap.Error(check.Err),
				)
			}
		}
		logger.Sync()
		return core.ExitCodeError
	}

	if validateOnly {
		logger.Info("Startup checks passed",
			zap.Int("checks_passed", result.PassedChecks),
			zap.Duration("duration", result.Duration),
		)
		logger.Sync()
		return core.ExitCodeSuccess
	}

	// The preflight run loaded and validated the configuration; reuse it.
	config := preflight.Config()

	logger.Info("Configuration loaded",
		zap.String("addr", config.Addr()),
		zap.String("data_dir", config.DataDir),
		zap.String("db_path", config.DBPath),
		zap.String("log_file", config.LogFile),
		zap.Int64("max_upload_bytes", config.MaxUploadBytes),
		zap.Int64("max_pixels", config.MaxPixels),
		zap.String("presets_file", config.PresetsFile),
		zap.Int("history_capacity", config.HistoryCapacity),
		zap.Bool("auth_enabled", config.RequiresAuth()),
		zap.Bool("gzip_enabled", config.EnableGzip),
		zap.Bool("dev_mode", isDevelopment),
	)

	// Prepare the on-disk layout
	if _, err := core.EnsureDataLayout(config.DataDir); err != nil {
		logger.Error("Failed to prepare data directory", zap.Error(err))
		logger.Sync()
		return core.ExitCodeError
	}

	// The shutdown manager owns the run context: OS signals cancel it, and
	// registered handlers run in priority order once shutdown begins.
	manager := shutdown.NewManager(logger.Zap())

	// Open the database and bring the schema up to date
	database, err := db.NewDatabaseWithConfig(db.DatabaseConfig{
		Path:           config.DBPath,
		MigrationsPath: config.MigrationsPath,
	})
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		logger.Sync()
		return core.ExitCodeError
	}

	if err := database.Migrate(); err != nil {
		logger.Error("Failed to run database migrations", zap.Error(err))
		database.Close()
		logger.Sync()
		return core.ExitCodeError
	}
	logger.Info("Database ready", zap.String("path", database.Path()))

	// History writes go through an async queue so the transform hot path
	// never blocks on SQLite.
	writeHandler := db.NewHistoryRepository(database, nil).CreateAsyncWriteHandler()
	historyWriter := db.NewAsyncWriter(writeHandler)
	historyWriter.Start()
	history := db.NewHistoryRepository(database, historyWriter)

	// Periodically expire old history rows
	cleanupConfig := db.DefaultCleanupSchedulerConfig()
	cleanupConfig.OnCleanup = func(result db.CleanupResult, err error) {
		if err != nil {
			logger.Warn("History cleanup failed", zap.Error(err))
			return
		}
		if result.OperationsDeleted > 0 {
			logger.Info("History cleanup removed old records",
				zap.Int64("operations_deleted", result.OperationsDeleted),
				zap.Duration("duration", result.Duration),
			)
		}
	}
	database.StartCleanupSchedulerWithConfig(manager.Context(), cleanupConfig)

	// In-memory metrics for /api/status and /api/stats
	store := metrics.NewStore(metrics.StoreConfig{
		HistoryCapacity: config.HistoryCapacity,
		Version:         core.GetVersion(),
	}, time.Now())

	// Transform engine: pure filters plus the imaging-backed kernel library
	library := kernel.NewLibrary()

	dispatcherConfig := transform.DefaultDispatcherConfig()
	dispatcherConfig.Collector = store
	dispatcherConfig.MaxPixels = int(config.MaxPixels)
	dispatcher, err := transform.NewDispatcher(library, library, logger, dispatcherConfig)
	if err != nil {
		logger.Error("Failed to create dispatcher", zap.Error(err))
		logger.Sync()
		return core.ExitCodeError
	}

	presets, err := webapi.LoadPresets(config.PresetsFile)
	if err != nil {
		logger.Error("Failed to load presets", zap.Error(err))
		logger.Sync()
		return core.ExitCodeError
	}
	if presets.Len() > 0 {
		logger.Info("Presets loaded",
			zap.Int("count", presets.Len()),
			zap.Strings("names", presets.Names()),
		)
	}

	serverConfig := webapi.DefaultServerConfig()
	serverConfig.Host = config.Host
	serverConfig.Port = config.Port
	serverConfig.APIKey = config.APIKey
	serverConfig.EnableGzip = config.EnableGzip
	serverConfig.DevMode = isDevelopment
	serverConfig.API.MaxBodyBytes = config.MaxUploadBytes
	serverConfig.API.VersionInfo = webapi.VersionInfo{
		Version:   core.GetVersion(),
		BuildDate: core.BuildTime,
		GitCommit: core.GitCommit,
	}

	srv, err := webapi.NewServer(serverConfig, dispatcher, store, history, presets, logger.Zap())
	if err != nil {
		logger.Error("Failed to create HTTP server", zap.Error(err))
		logger.Sync()
		return core.ExitCodeError
	}

	// Shutdown order: stop intake, flush buffered writes, close storage,
	// sync logs last so the earlier stages can still log.
	manager.Register("http-server", 5, shutdown.DrainHTTPServer(logger.Zap(), srv.HTTPServer()))
	manager.Register("history-writer", 15, shutdown.FlushWriter(logger.Zap(), "history-writer", historyWriter))
	manager.Register("database", 25, shutdown.CloseResource(logger.Zap(), "database", database))
	manager.Register("logs", 35, shutdown.SyncLogs(logger))

	manager.Start()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", srv.Addr()),
			zap.Bool("auth_enabled", srv.HasAuth()),
		)
		serverErr <- srv.Start(manager.Context())
	}()

	code := core.ExitCodeSuccess
	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
			code = core.ExitCodeError
		}
	case <-ctx.Done():
		logger.Info("Stop requested, shutting down")
	case <-manager.Context().Done():
		// OS signal; the manager already logged it
	}

	if err := manager.Shutdown(); err != nil {
		logger.Error("Shutdown completed with errors", zap.Error(err))
		if code == core.ExitCodeSuccess {
			code = core.ExitCodeError
		}
	}

	// Signal-initiated exits report the conventional 128+signal code
	if sigCode := manager.ExitCode(); sigCode != core.ExitCodeSuccess {
		code = sigCode
	}
	return code
}

// checkPresets verifies that the presets file, when present, parses and only
// references known operations.
func checkPresets(config *core.Config) (core.CheckStatus, string, error) {
	if config == nil {
		return core.CheckSkipped, "Skipped due to configuration errors", nil
	}

	presets, err := webapi.LoadPresets(config.PresetsFile)
	if err != nil {
		return core.CheckFailed, fmt.Sprintf("Presets file %s is invalid", config.PresetsFile), err
	}
	if presets.Len() == 0 {
		return core.CheckPassed, "No presets configured", nil
	}
	return core.CheckPassed, fmt.Sprintf("%d presets loaded from %s", presets.Len(), config.PresetsFile), nil
}

// checkDatabase verifies that the SQLite database can be opened and answers
// a ping. The file is created if it does not exist yet, exactly as the real
// startup will do.
func checkDatabase(config *core.Config) (core.CheckStatus, string, error) {
	if config == nil {
		return core.CheckSkipped, "Skipped due to configuration errors", nil
	}

	database, err := db.NewDatabaseWithConfig(db.DatabaseConfig{
		Path:           config.DBPath,
		MigrationsPath: config.MigrationsPath,
	})
	if err != nil {
		return core.CheckFailed, fmt.Sprintf("Cannot open database at %s", config.DBPath), err
	}
	defer database.Close()

	if err := database.Ping(); err != nil {
		return core.CheckFailed, "Database does not respond", err
	}
	return core.CheckPassed, fmt.Sprintf("SQLite database at %s", config.DBPath), nil
}
