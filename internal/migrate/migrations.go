package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
)

// MigrationFunc applies one direction of a migration inside tx.
type MigrationFunc func(context.Context, *sql.Tx) error

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          MigrationFunc
	Down        MigrationFunc
}

// NoopMigrationFunc is a no-op migration function
func NoopMigrationFunc(_ context.Context, _ *sql.Tx) error {
	return nil
}

// MigrationFuncFromSQLFilename returns a migration function that reads SQL from
// filename in fsys and executes it statement by statement.
func MigrationFuncFromSQLFilename(filename string, fsys fs.FS) MigrationFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		data, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return fmt.Errorf("failed to read migration file: %w", err)
		}
		return executeSQLStatements(ctx, tx, string(data))
	}
}

// executeSQLStatements splits sqlText and executes each statement separately;
// the MySQL driver rejects multi-statement strings by default.
func executeSQLStatements(ctx context.Context, tx *sql.Tx, sqlText string) error {
	for _, stmt := range SplitSQLStatements(sqlText) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute SQL statement: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

// SplitSQLStatements splits a SQL script on semicolons that are outside string
// literals, quoted identifiers and comments. Comments are dropped and empty
// statements are skipped.
func SplitSQLStatements(script string) []string {
	var (
		stmts   []string
		cur     strings.Builder
		quote   rune
		inLine  bool
		inBlock bool
	)
	runes := []rune(script)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case inLine:
			if r == '\n' {
				inLine = false
				cur.WriteRune(r)
			}
		case inBlock:
			if r == '*' && next == '/' {
				inBlock = false
				i++
			}
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				// doubled quote is an escaped quote
				if next == quote {
					cur.WriteRune(next)
					i++
				} else {
					quote = 0
				}
			}
		case r == '-' && next == '-':
			inLine = true
			i++
		case r == '/' && next == '*':
			inBlock = true
			i++
		case r == '\'' || r == '"' || r == '`':
			quote = r
			cur.WriteRune(r)
		case r == ';':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return stmts
}
