// Package db implements the document-store layer: client lifecycle, the
// prediction submission repository, and the store health probe.
package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"leafsense/internal/config"
)

// Connect establishes and verifies a client connection using the configured
// URL and timeout. The caller owns the returned client and must Disconnect
// it on shutdown.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("connecting to document store: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging document store: %w", err)
	}
	return client, nil
}

// Probe reports document-store reachability for the health endpoint.
type Probe struct {
	client *mongo.Client
}

// NewProbe wraps a connected client as a health probe.
func NewProbe(client *mongo.Client) *Probe {
	return &Probe{client: client}
}

// Name implements the health probe contract.
func (p *Probe) Name() string { return "mongodb" }

// Check pings the primary within the caller's deadline.
func (p *Probe) Check(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("client not connected")
	}
	return p.client.Ping(ctx, readpref.Primary())
}
