package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Nellyj1/chatai-sub002/internal/api"
	"github.com/Nellyj1/chatai-sub002/internal/genai"
	"github.com/Nellyj1/chatai-sub002/internal/messaging"
	"github.com/Nellyj1/chatai-sub002/internal/models"
	"github.com/Nellyj1/chatai-sub002/internal/store"
	"github.com/Nellyj1/chatai-sub002/internal/twilioclient"
	"github.com/Nellyj1/chatai-sub002/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for chatai state data
	DefaultStateDir = "/var/lib/chatai"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "chatai.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping chatai")
	slog.Debug("Final configuration", "db_driver", *flags.dbDriver, "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr)
	if err := api.Run(st, apiOpts...); err != nil {
		slog.Error("chatai failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("chatai exited successfully")
}

// Config holds environment configuration
type Config struct {
	DbDriver  string
	DSN       string
	StateDir  string
	APIAddr   string
	AdminKey  string
	OpenAIKey string
}

// Flags holds command line flag values
type Flags struct {
	stateDir *string
	dbDriver *string
	dbDSN    *string
	apiAddr  *string
	adminKey *string
}

// initializeLogger sets up structured logging. Debug level is the default and
// can be turned off with CHATAI_DEBUG=false.
func initializeLogger() {
	level := slog.LevelDebug
	if !util.ParseBoolEnv("CHATAI_DEBUG", true) {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DbDriver:  os.Getenv("CHATAI_DB_DRIVER"),
		DSN:       os.Getenv("CHATAI_DB_DSN"),
		StateDir:  os.Getenv("CHATAI_STATE_DIR"),
		APIAddr:   os.Getenv("CHATAI_API_ADDR"),
		AdminKey:  os.Getenv("CHATAI_ADMIN_KEY"),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
	}

	if config.DSN == "" {
		config.DSN = os.Getenv("DATABASE_URL")
		if config.DSN != "" {
			slog.Debug("Using DATABASE_URL as CHATAI_DB_DSN", "dsn_set", true)
		}
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No CHATAI_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// With no DSN at all, default to SQLite in the state directory.
	if config.DSN == "" {
		config.DSN = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DSN)
	}

	slog.Debug("environment variables loaded",
		"CHATAI_DB_DRIVER", config.DbDriver,
		"CHATAI_DB_DSN_SET", config.DSN != "",
		"CHATAI_STATE_DIR", config.StateDir,
		"CHATAI_API_ADDR", config.APIAddr,
		"CHATAI_ADMIN_KEY_SET", config.AdminKey != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "")

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir: flag.String("state-dir", config.StateDir, "state directory for chatai data (overrides $CHATAI_STATE_DIR)"),
		dbDriver: flag.String("db-driver", config.DbDriver, "database driver, sqlite or postgres (overrides $CHATAI_DB_DRIVER)"),
		dbDSN:    flag.String("db-dsn", config.DSN, "database DSN (overrides $CHATAI_DB_DSN or $DATABASE_URL)"),
		apiAddr:  flag.String("api-addr", config.APIAddr, "API server address (overrides $CHATAI_API_ADDR)"),
		adminKey: flag.String("admin-key", config.AdminKey, "API key required on write endpoints (overrides $CHATAI_ADMIN_KEY)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDriver", *flags.dbDriver,
		"dbDSN_set", *flags.dbDSN != "",
		"apiAddr", *flags.apiAddr,
		"adminKeySet", *flags.adminKey != "")

	// Follow an overridden state directory when the DSN was only defaulted from it.
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "new_state_dir", *flags.stateDir)
	}

	return flags
}

// buildStore opens the configured backing store. The driver is inferred from
// the DSN shape when not given explicitly.
func buildStore(flags Flags) (store.Store, error) {
	driver := *flags.dbDriver
	if driver == "" {
		if strings.HasPrefix(*flags.dbDSN, "postgres://") || strings.Contains(*flags.dbDSN, "host=") {
			driver = "postgres"
		} else {
			driver = "sqlite"
		}
		slog.Debug("Inferred database driver from DSN", "driver", driver)
	}

	switch driver {
	case "postgres":
		return store.NewPostgresStore(store.WithDSN(*flags.dbDSN))
	default:
		return store.NewSQLiteStore(store.WithDSN(*flags.dbDSN))
	}
}

// buildAPIOptions constructs API server options, attaching the generative tier
// and the Twilio channel only when their credentials are present.
func buildAPIOptions(flags Flags) []api.Option {
	var opts []api.Option
	if *flags.apiAddr != "" {
		opts = append(opts, api.WithAddr(*flags.apiAddr))
	}
	if *flags.adminKey != "" {
		opts = append(opts, api.WithAdminKey(*flags.adminKey))
	}

	navTTL := util.ParseDurationEnv("CHATAI_NAV_TTL", models.DefaultNavigationTTL)
	opts = append(opts, api.WithNavigationTTL(navTTL))

	if os.Getenv("OPENAI_API_KEY") != "" {
		client, err := genai.NewClient()
		if err != nil {
			slog.Warn("Generative tier disabled", "error", err)
		} else {
			opts = append(opts, api.WithGenAI(client))
			slog.Info("Generative tier enabled")
		}
	}

	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		sender, err := twilioclient.NewClient()
		if err != nil {
			slog.Warn("Twilio channel disabled", "error", err)
		} else {
			opts = append(opts, api.WithTwilio(messaging.NewTwilioService(sender)))
			slog.Info("Twilio channel enabled")
		}
	}

	return opts
}
