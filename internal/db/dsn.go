package db

import (
	"net/url"
	"regexp"
	"strings"
)

var pqKeyword = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// PostgresDSN cleans DATABASE_URL. URL DSNs pass through; lib/pq keyword lists
// get their whitespace collapsed and sslmode=disable when none is given.
func PostgresDSN(raw string) string {
	dsn := strings.Trim(strings.TrimSpace(raw), "\"'")
	if dsn == "" || isPostgresURL(dsn) || !pqKeyword.MatchString(dsn) {
		return dsn
	}
	dsn = strings.Join(strings.Fields(dsn), " ")
	if !strings.Contains(strings.ToLower(dsn), "sslmode=") {
		dsn += " sslmode=disable"
	}
	return dsn
}

func isPostgresURL(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// SQLiteDSN adds the pragmas the cache store relies on: a busy timeout so
// concurrent requests wait on the write lock, and WAL for file databases.
func SQLiteDSN(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "cotizaciones.db"
	}
	params := []string{"_busy_timeout=5000"}
	if !strings.Contains(path, ":memory:") && !strings.Contains(path, "mode=memory") {
		params = append(params, "_journal_mode=WAL")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// RedactDSN masks the password before a DSN is logged.
func RedactDSN(dsn string) string {
	if isPostgresURL(dsn) {
		if u, err := url.Parse(dsn); err == nil && u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), "xxxxx")
			}
			return u.String()
		}
	}
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if strings.HasPrefix(strings.ToLower(f), "password=") {
			fields[i] = "password=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
