// Package wire provides dependency injection for the auditcheck application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/auditcheck/internal/adapters/cli"
	"github.com/example/auditcheck/internal/adapters/sqlite"
	"github.com/example/auditcheck/internal/app"
	"github.com/example/auditcheck/internal/config"
	"github.com/example/auditcheck/internal/db"
	"github.com/example/auditcheck/internal/logging"
	"github.com/example/auditcheck/internal/ports/primary"
)

var (
	cfg              *config.Config
	cfgErr           error
	cfgDir           string
	logger           *zap.Logger
	checklistService primary.ChecklistService
	configOnce       sync.Once
	once             sync.Once
)

// ConfigDir returns the configuration directory: $AUDITCHECK_HOME when set,
// otherwise ~/.auditcheck.
func ConfigDir() string {
	configOnce.Do(loadConfig)
	return cfgDir
}

// Config returns the loaded configuration, including environment overrides.
// It exits the process when the configuration is invalid; commands that must
// survive a broken config use LoadConfig.
func Config() *config.Config {
	c, err := LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return c
}

// LoadConfig is Config returning the load error instead of exiting.
func LoadConfig() (*config.Config, error) {
	configOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Logger returns the singleton logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// ChecklistService returns the singleton ChecklistService instance.
func ChecklistService() primary.ChecklistService {
	once.Do(initServices)
	return checklistService
}

func loadConfig() {
	cfgDir = os.Getenv("AUDITCHECK_HOME")
	if cfgDir == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			cfgErr = err
			return
		}
		cfgDir = dir
	}

	cfg, cfgErr = config.Load(cfgDir)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()

	l, err := logging.NewLogger(logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		File:   c.Log.File,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger = l

	// Get database connection
	db.SetPath(c.DBPath)
	database, err := db.GetDB()
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", c.DBPath), zap.Error(err))
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	checklistRepo := sqlite.NewChecklistRepository(database)
	logRepo := sqlite.NewAuditLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(logRepo)

	// Create services (primary ports implementation)
	checklistService = app.NewChecklistService(checklistRepo, logRepo, logWriter, app.ChecklistServiceOptions{
		Policy:         c.Policy(),
		DefaultAuditor: c.DefaultAuditor,
		Logger:         logger,
	})
}

// ChecklistAdapter returns a new ChecklistAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ChecklistAdapter() *cliadapter.ChecklistAdapter {
	return ChecklistAdapterWithOutput(os.Stdout)
}

// ChecklistAdapterWithOutput returns a new ChecklistAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func ChecklistAdapterWithOutput(out io.Writer) *cliadapter.ChecklistAdapter {
	once.Do(initServices)
	return cliadapter.NewChecklistAdapter(checklistService, out)
}

// Close flushes the logger and closes the database.
func Close() {
	if logger != nil {
		_ = logger.Sync()
	}
	_ = db.Close()
}
