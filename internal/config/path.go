package config

import (
	"os"
	"path/filepath"
)

// defaultDatabasePath returns the standard location for the SQLite database,
// falling back to the working directory when the home directory is unknown.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "centavo.db"
	}
	return filepath.Join(home, ".local", "share", "centavo", "centavo.db")
}
