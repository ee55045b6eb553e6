// Package manager checks for and creates PostgreSQL databases.
//
// Database names are quoted with pgx.Identifier.Sanitize, so names with
// spaces, quotes or other special characters are handled safely.
//
//	mgr := manager.New()
//	created, err := mgr.EnsureExists(ctx, pool, "loans")
package manager
