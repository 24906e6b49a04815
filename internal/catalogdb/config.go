package catalogdb

import "archiroutes.org/internal/appconf"

// Config holds configuration options for the catalog Client.
type Config struct {
	// DBPath is the path to the SQLite database file. ":memory:" gives an
	// in-memory database, which tests use.
	DBPath  string
	Env     appconf.Environment
	verbose bool
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}
