// Package postgres implements auth.Storage on Postgres through database/sql.
// Use stdlib.OpenDBFromPool to share the pgx pool opened by pkg/pg.
package postgres
