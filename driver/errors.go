package driver

import "github.com/pkg/errors"

// ErrPoolClosed is returned by an adapter when an operation targets a pool
// that has already been closed or terminated.
var ErrPoolClosed = errors.New("driver: pool is closed")

// ErrUnsupportedDSN is returned by CreatePool when the adapter cannot
// parse or does not support the given DSN.
var ErrUnsupportedDSN = errors.New("driver: unsupported dsn")
