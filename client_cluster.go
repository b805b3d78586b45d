package esappender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	elasticsearch "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/valyala/fastjson"
)

// ClusterClient indexes documents through the official Elasticsearch client,
// which balances requests over every configured node.
type ClusterClient struct {
	es        *elasticsearch.Client
	transport *http.Transport
	closed    atomic.Bool
}

// NewClusterClient creates a client for cfg.Addresses(). When
// cfg.ClusterName is set the backend is asked for its cluster name and a
// different answer is an error.
func NewClusterClient(cfg *Config) (*ClusterClient, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:            cfg.Addresses(),
		Username:             cfg.User,
		Password:             cfg.Password,
		CompressRequestBody:  cfg.Compress,
		DiscoverNodesOnStart: cfg.Sniff,
		DisableRetry:         true,
		Transport:            transport,
	})
	if err != nil {
		return nil, NewConnectionError("failed to create cluster client", err)
	}

	c := &ClusterClient{es: es, transport: transport}

	if cfg.ClusterName != "" {
		ctx := context.Background()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		if err := c.checkClusterName(ctx, cfg.ClusterName); err != nil {
			transport.CloseIdleConnections()
			return nil, err
		}
	}

	return c, nil
}

func (c *ClusterClient) checkClusterName(ctx context.Context, want string) error {
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return NewConnectionError("cluster info request failed", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.IsError() {
		return NewConnectionError(
			fmt.Sprintf("cluster info failed with status %d: %s", res.StatusCode, errorReason(body)),
			nil,
		)
	}

	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return NewConnectionError("invalid cluster info response", err)
	}
	if got := string(v.GetStringBytes("cluster_name")); got != want {
		return NewClusterMismatchError(want, got)
	}
	return nil
}

// Index stores doc with the given document ID and type.
func (c *ClusterClient) Index(ctx context.Context, index, docType, id string, doc Document) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	opts := []func(*esapi.IndexRequest){
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(id),
	}
	if docType != "" {
		opts = append(opts, c.es.Index.WithDocumentType(docType))
	}

	res, err := c.es.Index(index, bytes.NewReader(body), opts...)
	if err != nil {
		return NewConnectionError("cannot connect to cluster", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return statusError(res.StatusCode, index, respBody)
}

// Shutdown closes idle connections to every node.
func (c *ClusterClient) Shutdown() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}
	c.transport.CloseIdleConnections()
	return nil
}
