// Package all registers every storage backend. Blank-import it from main
// packages that select a backend at runtime.
package all

import (
	_ "propfacts/internal/storage/mssql"
	_ "propfacts/internal/storage/mysql"
	_ "propfacts/internal/storage/postgres"
	_ "propfacts/internal/storage/sqlite"
)
