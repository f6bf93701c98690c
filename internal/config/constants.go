package config

import "strings"

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./tasks.db"

	// DefaultJobsDatabasePath is the default path for the background job queue database
	DefaultJobsDatabasePath = "./tasks-jobs.db"
)

// DefaultTokenIssuer is the "iss" claim stamped on issued tokens.
const DefaultTokenIssuer = "taskmanager"

// splitList turns a comma-separated env value into trimmed, non-empty items.
func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
