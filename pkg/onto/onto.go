// Package onto provides the public entry points: the release version
// and the factory for the SQLite-backed store.
package onto

import (
	"github.com/praxis-works/onto/internal/sqlite"
	"github.com/praxis-works/onto/pkg/types"
)

// Version is the release version reported by the CLI.
const Version = "0.3.0"

// NewStore creates a new SQLite store instance. The store is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := onto.NewStore()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".onto-db",
//	})
//	defer store.Detach()
func NewStore() types.Store {
	return sqlite.NewBackend()
}
