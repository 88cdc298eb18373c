package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL appends disable_prepared_binary_result=yes when the toggle
// is on and the URL does not already set it. lib/pq's binary result format
// trips over some numeric columns through pgbouncer.
func normalizeDBURL(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	if q.Has("disable_prepared_binary_result") {
		return raw
	}
	q.Set("disable_prepared_binary_result", "yes")
	u.RawQuery = q.Encode()

	return u.String()
}

// dbNameFromURL extracts the database name from either a postgres:// URL or
// a key=value DSN, for the otelsql db.name attribute.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		return strings.TrimPrefix(u.Path, "/")
	}

	for _, field := range strings.Fields(raw) {
		if value, ok := strings.CutPrefix(field, "dbname="); ok {
			return strings.Trim(value, `"'`)
		}
	}

	return ""
}
