package auth

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations executes the embedded schema migrations in lexical
// order. Statements are idempotent; running twice is safe.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	entries, err := fs.ReadDir(migrationsFS, "data/sql/migrations")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migrations")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(migrationsFS, "data/sql/migrations/"+name)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration").
				WithMetadata(map[string]any{"migration": name})
		}

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to apply migration").
				WithMetadata(map[string]any{"migration": name})
		}
	}

	return nil
}
