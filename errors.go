package esappender

import (
	"errors"
	"fmt"
)

var (
	// ErrClientClosed is returned by a Client used after Shutdown.
	ErrClientClosed = errors.New("esappender: client is shut down")
	// ErrAppenderClosed is returned by ActivateOptions after Close.
	ErrAppenderClosed = errors.New("esappender: appender is closed")
)

// BackendError is the base error type for indexing backend operations.
type BackendError struct {
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// ConnectionError indicates the backend could not be reached or answered
// with an unexpected status.
type ConnectionError struct {
	BackendError
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(message string, cause error) *ConnectionError {
	return &ConnectionError{
		BackendError: BackendError{Message: message, Cause: cause},
	}
}

// AuthError indicates authentication failure (HTTP 401).
type AuthError struct {
	BackendError
}

// NewAuthError creates a new AuthError.
func NewAuthError(message string) *AuthError {
	return &AuthError{
		BackendError: BackendError{Message: message},
	}
}

// IndexNotFoundError indicates the index does not exist (HTTP 404).
type IndexNotFoundError struct {
	BackendError
}

// NewIndexNotFoundError creates a new IndexNotFoundError.
func NewIndexNotFoundError(indexName string) *IndexNotFoundError {
	return &IndexNotFoundError{
		BackendError: BackendError{
			Message: fmt.Sprintf("index '%s' does not exist", indexName),
		},
	}
}

// QueryError indicates the backend rejected the request (HTTP 400).
type QueryError struct {
	BackendError
}

// NewQueryError creates a new QueryError.
func NewQueryError(message string) *QueryError {
	return &QueryError{
		BackendError: BackendError{Message: message},
	}
}

// ClusterMismatchError indicates the cluster answering at the configured
// address is not the configured cluster.
type ClusterMismatchError struct {
	BackendError
	Want string
	Got  string
}

// NewClusterMismatchError creates a new ClusterMismatchError.
func NewClusterMismatchError(want, got string) *ClusterMismatchError {
	return &ClusterMismatchError{
		BackendError: BackendError{
			Message: fmt.Sprintf("connected to cluster '%s', expected '%s'", got, want),
		},
		Want: want,
		Got:  got,
	}
}
