// Package dsn parses PostgreSQL-style connection strings and splits a
// multi-host string into one single-host DSN per host.
//
// Example:
//
//	hosts, err := dsn.Split("postgresql://u:p@master,replica1,replica2/db", dsn.DefaultPort)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, h := range hosts {
//	    fmt.Println(h.Redacted())
//	}
package dsn
