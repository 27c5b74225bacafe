package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/caseflow/ratingbot/pkg/config"
	"github.com/caseflow/ratingbot/pkg/retry"
)

// Client represents a PostgreSQL database client. A nil *Client is a valid
// "storage unconfigured" client: adapters built on it degrade to no-ops.
type Client struct {
	db *sql.DB
}

// NewClient creates a new PostgreSQL client with exponential backoff retry.
// When the database is disabled in configuration it returns a nil client and
// no error, which puts the service into storage-less mode.
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test the connection with retry
	retryConfig := retry.DefaultConfig()
	err = retry.DoWithLog(
		context.Background(),
		retryConfig,
		"PostgreSQL",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).
				Msg("PostgreSQL connection attempt failed, retrying")
		},
	)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	log.Info().Msg("Successfully connected to PostgreSQL")
	return &Client{db: db}, nil
}

// NewClientFromDB wraps an existing database handle. Used by tests and
// tooling that manage the connection themselves.
func NewClientFromDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// Configured reports whether a real database backs this client.
func (c *Client) Configured() bool {
	return c != nil && c.db != nil
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	if c == nil {
		return nil
	}
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	if !c.Configured() {
		return nil
	}
	return c.db.Close()
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return nil
	}
	return c.db.PingContext(ctx)
}
