package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name into a DSN.
// An empty name returns baseURL untouched. sslmode=disable is appended when the
// URL does not already choose an sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, hasQuery := strings.Cut(strings.TrimRight(baseURL, "/"), "?")
	base = strings.TrimRight(base, "/")

	databaseURL := fmt.Sprintf("%s/%s", base, databaseName)
	if hasQuery && query != "" {
		databaseURL = fmt.Sprintf("%s?%s", databaseURL, query)
	}

	if strings.Contains(databaseURL, "sslmode=") {
		return databaseURL
	}
	if strings.Contains(databaseURL, "?") {
		return databaseURL + "&sslmode=disable"
	}
	return databaseURL + "?sslmode=disable"
}
