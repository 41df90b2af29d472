package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Database wraps the PostgreSQL connection and exposes typed accessors
// for profiles, ideas, pain points, and validation signals.
type Database struct {
	db *sql.DB
}

// Close closes the underlying connection pool
func (d *Database) Close() error {
	return d.db.Close()
}

// Ping verifies the connection is alive
func (d *Database) Ping() error {
	return d.db.Ping()
}

// newID generates a primary key for a new row
func newID() string {
	return uuid.New().String()
}

// rebind converts ? placeholders to $1, $2, ... for PostgreSQL.
// This is used throughout the database package for parameterized queries.
func rebind(query string) string {
	n := 1
	out := strings.Builder{}
	for _, ch := range query {
		if ch == '?' {
			out.WriteString(fmt.Sprintf("$%d", n))
			n++
		} else {
			out.WriteRune(ch)
		}
	}
	return out.String()
}
