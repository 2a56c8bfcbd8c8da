package dsn

import "github.com/pkg/errors"

var (
	// ErrEmptyDSN is returned when an empty connection string is parsed.
	ErrEmptyDSN = errors.New("dsn: empty connection string")

	// ErrNoHost is returned when a connection string names no host.
	ErrNoHost = errors.New("dsn: no host specified")

	// ErrMultipleHosts is returned by Parse (not Split) when the input
	// names more than one host; Parse only ever produces a single DSN.
	ErrMultipleHosts = errors.New("dsn: multiple hosts given to Parse, use Split")

	// ErrMalformedKeyValue is returned when a libpq key=value token has no
	// '=' separator.
	ErrMalformedKeyValue = errors.New("dsn: malformed key=value token")

	// ErrUnterminatedQuote is returned when a libpq quoted value is never
	// closed.
	ErrUnterminatedQuote = errors.New("dsn: unterminated quoted value")
)
