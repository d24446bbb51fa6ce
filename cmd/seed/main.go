// Command seed loads an exercise library JSON file into the database.
// Entries are matched by UID, or by name when the file carries none, so
// reseeding an existing database is safe.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/repforge/repforge/internal/envstruct"
	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/logging"
	"github.com/repforge/repforge/internal/sqlite"
	"github.com/repforge/repforge/internal/store"
)

type config struct {
	// SqliteURL is the URL to the SQLite database.
	SqliteURL string `env:"REPFORGE_SQLITE_URL" envDefault:"./repforge.sqlite3"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), libraryPath string) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	raw, err := os.ReadFile(libraryPath)
	if err != nil {
		return errors.Wrap(err, "read library file", slog.String("path", libraryPath))
	}
	var exercises []store.Exercise
	if err = json.Unmarshal(raw, &exercises); err != nil {
		return errors.Wrap(err, "parse library file", slog.String("path", libraryPath))
	}
	if len(exercises) == 0 {
		return errors.New("library file contains no exercises")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()

	st := store.New(db, logger)

	// Library files usually carry no UIDs, so match against what is already
	// seeded by name to keep reseeding idempotent.
	existing, err := st.Exercises.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list existing exercises")
	}
	uidByName := make(map[string]string, len(existing))
	for _, exercise := range existing {
		uidByName[exercise.Name] = exercise.UID
	}

	for _, exercise := range exercises {
		if exercise.Name == "" {
			return errors.New("exercise without a name in library file")
		}
		if exercise.UID == "" {
			exercise.UID = uidByName[exercise.Name]
		}
		if _, err = st.Exercises.Upsert(ctx, exercise); err != nil {
			return errors.Wrap(err, "upsert exercise", slog.String("name", exercise.Name))
		}
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "seeded exercise library",
		slog.Int("exercises", len(exercises)), slog.String("db", cfg.SqliteURL))
	return nil
}

func main() {
	ctx := context.Background()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, nil)))

	if len(os.Args) != 2 {
		logger.LogAttrs(ctx, slog.LevelError, "usage: seed <library.json>")
		os.Exit(1)
	}
	if err := run(ctx, logger, os.LookupEnv, os.Args[1]); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "seeding failed", errors.SlogError(err))
		os.Exit(1)
	}
}
