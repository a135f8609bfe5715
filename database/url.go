package database

import (
	"fmt"
	"net/url"
	"strings"
)

// ConstructDatabaseURL combines a server URL with an optional database name.
// When a name is given the path is replaced and sslmode=disable is added
// unless the URL already chooses an sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		// Leave malformed URLs for pgx to reject with a clearer message
		return fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), databaseName)
	}

	u.Path = "/" + databaseName

	query := u.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()

	return u.String()
}
