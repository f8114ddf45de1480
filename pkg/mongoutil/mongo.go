package mongoutil

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config controls mongo client behavior.
// Keep it config-driven; defaults should be safe and conservative.
type Config struct {
	URI string

	ConnectTimeout  time.Duration
	ServerSelection time.Duration
	MaxPoolSize     uint64

	PingTimeout time.Duration
}

func (c Config) withDefaults() Config {
	out := c
	if out.ConnectTimeout <= 0 {
		out.ConnectTimeout = 5 * time.Second
	}
	if out.ServerSelection <= 0 {
		out.ServerSelection = 5 * time.Second
	}
	if out.MaxPoolSize == 0 {
		out.MaxPoolSize = 50
	}
	if out.PingTimeout <= 0 {
		out.PingTimeout = 3 * time.Second
	}
	return out
}

// Open connects a mongo client and validates connectivity via ping.
// The URI must not be logged; it may contain credentials.
func Open(ctx context.Context, cfg Config) (*mongo.Client, error) {
	cfg = cfg.withDefaults()
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelection).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return client, nil
}
