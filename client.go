package esappender

import (
	"context"
	"fmt"
)

// Client is a connection handle to the indexing backend. Implementations
// must be safe for use by a single worker goroutine while another goroutine
// calls Shutdown.
type Client interface {
	// Index stores doc under id in the given index and document type.
	Index(ctx context.Context, index, docType, id string, doc Document) error
	// Shutdown releases the handle. Calls after the first return
	// ErrClientClosed.
	Shutdown() error
}

// Opener constructs a Client from a configuration snapshot.
type Opener func(cfg *Config) (Client, error)

// OpenClient creates the Client selected by cfg.Transport. An empty
// transport selects TransportHTTP.
func OpenClient(cfg *Config) (Client, error) {
	switch cfg.Transport {
	case "", TransportHTTP:
		return NewHTTPClient(cfg), nil
	case TransportCluster:
		client, err := NewClusterClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
