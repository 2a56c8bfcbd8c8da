// Package dsn parses and splits PostgreSQL-style multi-host connection
// strings, in both URL form and libpq key=value form.
package dsn

import (
	"net/url"
	"strconv"
	"strings"
)

// Redacted is the placeholder substituted for a password in every log line
// that includes a DSN. Never log a raw DSN; always go through Redacted().
const Redacted = "******"

// DefaultScheme is used when a libpq key=value string (which carries no
// scheme) is rendered back to its canonical URL form.
const DefaultScheme = "postgresql"

// KV is an ordered connection-string query parameter. Parameters are kept
// as a slice, not a map, so the canonical string form (and therefore
// equality) is deterministic.
type KV struct {
	Key   string
	Value string
}

// DSN is a single-host connection string, decomposed into its components.
// Two DSNs are equal iff their canonical String() form is equal; that
// equality is the identity used for deduplication and for every map/set
// keyed by host throughout the package (DSN itself is not a valid map key
// because Params is a slice — always key maps by String()).
type DSN struct {
	Scheme   string
	User     string
	Password string
	Host     string
	Port     int
	DBName   string
	Params   []KV
}

// WithPassword returns a copy of d with the password replaced. Used to
// produce the redacted form before logging.
func (d DSN) WithPassword(password string) DSN {
	d.Password = password
	return d
}

// Equal reports whether d and other have the same canonical string form.
func (d DSN) Equal(other DSN) bool {
	return d.String() == other.String()
}

// Redacted returns the canonical string form with the password masked.
func (d DSN) Redacted() string {
	if d.Password == "" {
		return d.String()
	}
	return d.WithPassword(Redacted).String()
}

func (d DSN) isIPv6Host() bool {
	return strings.Count(d.Host, ":") > 1
}

func (d DSN) hostPort() string {
	if d.isIPv6Host() {
		if d.Port > 0 {
			return "[" + d.Host + "]:" + strconv.Itoa(d.Port)
		}
		return "[" + d.Host + "]"
	}
	if d.Port > 0 {
		return d.Host + ":" + strconv.Itoa(d.Port)
	}
	return d.Host
}

// String renders the canonical URL form of the DSN, including the
// password in plaintext. Never pass this to a logger; use Redacted.
func (d DSN) String() string {
	scheme := d.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")

	if d.User != "" {
		b.WriteString(url.QueryEscape(d.User))
		if d.Password != "" {
			b.WriteByte(':')
			b.WriteString(url.QueryEscape(d.Password))
		}
		b.WriteByte('@')
	}

	b.WriteString(d.hostPort())

	if d.DBName != "" {
		b.WriteByte('/')
		b.WriteString(d.DBName)
	}

	if len(d.Params) > 0 {
		b.WriteByte('?')
		for i, kv := range d.Params {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(kv.Key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(kv.Value))
		}
	}

	return b.String()
}
