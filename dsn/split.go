package dsn

// DefaultPort is the standard PostgreSQL port; Split uses it in place of
// a non-positive defaultPort argument.
const DefaultPort = 5432

// Split parses a (possibly multi-host) connection string and returns an
// ordered, deduplicated list of single-host DSNs, one per distinct host.
//
// Port propagation follows spec: if every host carries its own port, each
// keeps it; if exactly one trailing port is given, it is applied to every
// host; otherwise defaultPort is used for every host, including any host
// that names its own port.
func Split(s string, defaultPort int) ([]DSN, error) {
	r, err := parseRaw(s)
	if err != nil {
		return nil, err
	}
	if len(r.hosts) == 0 {
		return nil, ErrNoHost
	}
	if defaultPort <= 0 {
		defaultPort = DefaultPort
	}

	ports := resolvePorts(r.hosts, r.ports, defaultPort)

	seen := make(map[string]struct{}, len(r.hosts))
	result := make([]DSN, 0, len(r.hosts))
	for i, host := range r.hosts {
		d := DSN{
			Scheme:   r.scheme,
			User:     r.user,
			Password: r.password,
			Host:     host,
			Port:     ports[i],
			DBName:   r.dbname,
			Params:   r.params,
		}
		key := d.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, d)
	}

	return result, nil
}

// resolvePorts implements the port-propagation rule described on Split.
func resolvePorts(hosts, ports []string, defaultPort int) []int {
	resolved := make([]int, len(hosts))

	allHaveOwnPort := len(ports) == len(hosts) && len(ports) > 0
	if allHaveOwnPort {
		for _, p := range ports {
			if p == "" {
				allHaveOwnPort = false
				break
			}
		}
	}
	if allHaveOwnPort {
		for i, p := range ports {
			resolved[i] = atoiOr(p, defaultPort)
		}
		return resolved
	}

	given := 0
	for _, p := range ports {
		if p != "" {
			given++
		}
	}
	if given == 1 && ports[len(ports)-1] != "" {
		port := atoiOr(ports[len(ports)-1], defaultPort)
		for i := range resolved {
			resolved[i] = port
		}
		return resolved
	}

	for i := range resolved {
		resolved[i] = defaultPort
	}
	return resolved
}

func atoiOr(s string, fallback int) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}
