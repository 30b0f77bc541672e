// Package e2e exercises the result sinks against real backing services
// started with testcontainers. Every test skips when docker is absent.
package e2e

import (
	"context"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient is a small helper around the official InfluxDB v2 client.
// The sinks under test do the writing; this client only queries the results
// back and hides token/org plumbing.
type InfluxClient struct {
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a client for the given instance. It assumes the
// server is already running and onboarded.
func NewInfluxClient(url, org, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{client: c, query: c.QueryAPI(org)}
}

// Query runs a Flux query and returns the raw result iterator. The caller
// is responsible for iterating and closing it.
func (c *InfluxClient) Query(ctx context.Context, flux string) (*api.QueryTableResult, error) {
	return c.query.Query(ctx, flux)
}

// Ready reports whether the instance answers an authenticated query.
func (c *InfluxClient) Ready(ctx context.Context) bool {
	health, err := c.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		return false
	}
	res, err := c.query.Query(ctx, `buckets()`)
	if err != nil {
		return false
	}
	defer func() { _ = res.Close() }()
	return res.Err() == nil
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
