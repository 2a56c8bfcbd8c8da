package dsn

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// raw is the intermediate, not-yet-expanded form shared by Parse and
// Split: it keeps the host and port lists separate so the splitter can
// apply the port-propagation rule (spec: every host has its own port /
// one trailing port for all / caller-supplied default).
type raw struct {
	scheme   string
	user     string
	password string
	hosts    []string
	ports    []string // "" entries mean "no explicit port for this host"
	dbname   string
	params   []KV
}

// Parse parses a single-host connection string in either URL form
// (scheme://[user[:password]@]host[:port][/dbname][?k=v&...]) or libpq
// key=value form (host=h port=p user=u dbname=d ...). It fails with
// ErrMultipleHosts if more than one host is named; use Split for
// multi-host strings.
func Parse(s string) (DSN, error) {
	r, err := parseRaw(s)
	if err != nil {
		return DSN{}, err
	}
	if len(r.hosts) == 0 {
		return DSN{}, ErrNoHost
	}
	if len(r.hosts) > 1 {
		return DSN{}, ErrMultipleHosts
	}

	port := 0
	if len(r.ports) > 0 && r.ports[0] != "" {
		p, err := strconv.Atoi(r.ports[0])
		if err != nil {
			return DSN{}, errors.Wrap(err, "dsn: invalid port")
		}
		port = p
	}

	return DSN{
		Scheme:   r.scheme,
		User:     r.user,
		Password: r.password,
		Host:     r.hosts[0],
		Port:     port,
		DBName:   r.dbname,
		Params:   r.params,
	}, nil
}

func parseRaw(s string) (raw, error) {
	if strings.TrimSpace(s) == "" {
		return raw{}, ErrEmptyDSN
	}
	if strings.Contains(s, "://") {
		return parseURLForm(s)
	}
	return parseLibpqForm(s)
}

func parseURLForm(s string) (raw, error) {
	var r raw

	idx := strings.Index(s, "://")
	r.scheme = s[:idx]
	rest := s[idx+3:]

	if qi := strings.IndexByte(rest, '?'); qi >= 0 {
		query := rest[qi+1:]
		rest = rest[:qi]
		params, err := parseQuery(query)
		if err != nil {
			return raw{}, err
		}
		r.params = params
	}

	if si := strings.IndexByte(rest, '/'); si >= 0 {
		dbname, err := url.QueryUnescape(rest[si+1:])
		if err != nil {
			return raw{}, errors.Wrap(err, "dsn: invalid dbname")
		}
		r.dbname = dbname
		rest = rest[:si]
	}

	if ai := strings.LastIndexByte(rest, '@'); ai >= 0 {
		userinfo := rest[:ai]
		rest = rest[ai+1:]

		if ci := strings.IndexByte(userinfo, ':'); ci >= 0 {
			user, err := url.QueryUnescape(userinfo[:ci])
			if err != nil {
				return raw{}, errors.Wrap(err, "dsn: invalid user")
			}
			password, err := url.QueryUnescape(userinfo[ci+1:])
			if err != nil {
				return raw{}, errors.Wrap(err, "dsn: invalid password")
			}
			r.user, r.password = user, password
		} else {
			user, err := url.QueryUnescape(userinfo)
			if err != nil {
				return raw{}, errors.Wrap(err, "dsn: invalid user")
			}
			r.user = user
		}
	}

	hostEntries, err := splitHostList(rest)
	if err != nil {
		return raw{}, err
	}
	for _, entry := range hostEntries {
		host, port, err := splitHostPort(entry)
		if err != nil {
			return raw{}, err
		}
		r.hosts = append(r.hosts, host)
		r.ports = append(r.ports, port)
	}

	return r, nil
}

// splitHostList splits a comma-separated host[:port] list, respecting
// bracketed IPv6 literals (which may themselves contain colons but never
// commas).
func splitHostList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var entries []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, errors.New("dsn: unbalanced '[' in host list")
			}
		case ',':
			if depth == 0 {
				entries = append(entries, s[start:i])
				start = i + 1
			}
		}
	}
	entries = append(entries, s[start:])
	return entries, nil
}

func splitHostPort(entry string) (host, port string, err error) {
	if strings.HasPrefix(entry, "[") {
		ci := strings.IndexByte(entry, ']')
		if ci < 0 {
			return "", "", errors.New("dsn: unterminated IPv6 literal")
		}
		host = entry[1:ci]
		rest := entry[ci+1:]
		if strings.HasPrefix(rest, ":") {
			port = rest[1:]
		}
		return host, port, nil
	}

	if strings.Count(entry, ":") == 1 {
		parts := strings.SplitN(entry, ":", 2)
		return parts[0], parts[1], nil
	}

	// Bare IPv6 address (more than one colon, no brackets) or a bare
	// hostname (no colon): treat the whole thing as the host.
	return entry, "", nil
}

func parseQuery(query string) ([]KV, error) {
	if query == "" {
		return nil, nil
	}
	var params []KV
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		key, err := url.QueryUnescape(kv[0])
		if err != nil {
			return nil, errors.Wrap(err, "dsn: invalid query key")
		}
		var value string
		if len(kv) == 2 {
			value, err = url.QueryUnescape(kv[1])
			if err != nil {
				return nil, errors.Wrap(err, "dsn: invalid query value")
			}
		}
		params = append(params, KV{Key: key, Value: value})
	}
	return params, nil
}

// parseLibpqForm parses "key=value key=value ..." strings, where a value
// may be single-quoted to contain spaces (quotes support \' and \\
// escapes, mirroring libpq's own rules closely enough for this purpose).
func parseLibpqForm(s string) (raw, error) {
	tokens, err := tokenizeLibpq(s)
	if err != nil {
		return raw{}, err
	}

	var r raw
	var hostField, portField string
	hostSeen, portSeen := false, false

	for _, tok := range tokens {
		eq := strings.IndexByte(tok, '=')
		if eq < 0 {
			return raw{}, ErrMalformedKeyValue
		}
		key := tok[:eq]
		value := tok[eq+1:]

		switch key {
		case "host", "hostaddr":
			hostField = value
			hostSeen = true
		case "port":
			portField = value
			portSeen = true
		case "user":
			r.user = value
		case "password":
			r.password = value
		case "dbname":
			r.dbname = value
		default:
			r.params = append(r.params, KV{Key: key, Value: value})
		}
	}

	if hostSeen {
		r.hosts = strings.Split(hostField, ",")
	}
	if portSeen {
		r.ports = strings.Split(portField, ",")
	}

	// Normalize ports length against hosts: a single port value applies
	// to every host (handled by the caller's propagation rule); here we
	// only guarantee r.ports has either 0, 1, or len(r.hosts) entries.
	if len(r.ports) > 1 && len(r.ports) != len(r.hosts) {
		return raw{}, errors.New("dsn: port list length does not match host list length")
	}

	return r, nil
}

func tokenizeLibpq(s string) ([]string, error) {
	var tokens []string
	i, n := 0, len(s)
	for i < n {
		for i < n && s[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && s[i] != '=' && s[i] != ' ' {
			i++
		}
		if i >= n || s[i] != '=' {
			return nil, ErrMalformedKeyValue
		}
		key := s[start:i]
		i++ // skip '='

		var value strings.Builder
		if i < n && s[i] == '\'' {
			i++
			closed := false
			for i < n {
				switch s[i] {
				case '\\':
					if i+1 < n {
						value.WriteByte(s[i+1])
						i += 2
						continue
					}
					i++
				case '\'':
					closed = true
					i++
				default:
					value.WriteByte(s[i])
					i++
				}
				if closed {
					break
				}
			}
			if !closed {
				return nil, ErrUnterminatedQuote
			}
		} else {
			start := i
			for i < n && s[i] != ' ' {
				i++
			}
			value.WriteString(s[start:i])
		}

		tokens = append(tokens, key+"="+value.String())
	}
	return tokens, nil
}
