package helper

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection parameters for the Postgres
// vector store backend.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the database configuration from
// environment variables (DB_HOST, DB_PORT, DB_DATABASE, DB_USERNAME,
// DB_PASSWORD, DB_SCHEMA, DB_SSLMODE). A .env file in the working
// directory is loaded first if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	// Missing .env is fine, envs may be set directly.
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Database: os.Getenv("DB_DATABASE"),
		Username: os.Getenv("DB_USERNAME"),
		Password: os.Getenv("DB_PASSWORD"),
		Schema:   os.Getenv("DB_SCHEMA"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	if config.Host == "" || config.Port == "" || config.Database == "" || config.Username == "" {
		return nil, fmt.Errorf("incomplete database configuration, required envs: DB_HOST, DB_PORT, DB_DATABASE, DB_USERNAME")
	}
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// ConnectionString returns the lib/pq connection string for the configuration.
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"host=%v port=%v dbname=%v user=%v password=%v search_path=%v sslmode=%v",
		c.Host, c.Port, c.Database, c.Username, c.Password, c.Schema, c.SSLMode,
	)
}

// Database wraps a sql.DB instance together with its configuration and a
// logger shared by all handlers using the connection.
type Database struct {
	Name     string
	Instance *sql.DB
	Config   *DatabaseConfiguration
	Logger   *slog.Logger
}

// NewDatabase opens a connection to the configured Postgres instance.
// It panics if the database is unreachable, connecting is a precondition
// for everything else.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	instance, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		log.Panicf("error opening database connection: %v", err)
	}

	// The connection is established lazily, ping with retries so the
	// caller gets a usable instance back.
	for attempt := 0; attempt < 5; attempt++ {
		err = instance.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
	}
	if err != nil {
		log.Panicf("error pinging database: %v", err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Instance: instance,
		Config:   config,
		Logger:   logger,
	}
}

// NewTestDatabase creates a database connection with a default pretty
// logger, intended for tests and examples.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelWarn,
		},
	}
	logger := slog.New(NewPrettyHandler(os.Stdout, opts))
	return NewDatabase("test", config, logger)
}
