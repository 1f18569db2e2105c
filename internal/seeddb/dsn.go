package seeddb

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// pathEscaper escapes the characters that SQLite URI parsing would
// otherwise treat as query or fragment delimiters.
var pathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// mergeDSN turns a database location into a "file:" URI carrying the given
// driver parameters. A location that is already a "file:" URI keeps its own
// parameters, defaults only fill the missing ones.
func mergeDSN(location string, defaults url.Values) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", errors.New("database location is required")
	}

	base, rawQuery := "file:"+pathEscaper.Replace(location), ""
	if strings.HasPrefix(location, "file:") {
		base = location
		if i := strings.IndexRune(location, '?'); i >= 0 {
			base, rawQuery = location[:i], location[i+1:]
		}
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("invalid query parameters: %w", err)
	}

	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := query[k]; !ok {
			query[k] = defaults[k]
		}
	}

	return base + "?" + query.Encode(), nil
}

// isReadOnlyLocation reports whether location is a "file:" URI that asks
// for a read-only connection.
func isReadOnlyLocation(location string) bool {
	location = strings.TrimSpace(location)
	if !strings.HasPrefix(location, "file:") {
		return false
	}

	i := strings.IndexRune(location, '?')
	if i < 0 {
		return false
	}

	query, err := url.ParseQuery(location[i+1:])
	if err != nil {
		return false
	}
	return query.Get("mode") == "ro"
}
