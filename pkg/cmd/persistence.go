package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/freeflowhq/automation-engine/pkg/persistence"
	"github.com/freeflowhq/automation-engine/pkg/persistence/file"
	"github.com/freeflowhq/automation-engine/pkg/persistence/postgresql"
)

// NewPersistence selects the backend from the database URL scheme.
// postgres:// and postgresql:// pick the SQL backend; anything else falls
// back to file-based persistence.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgresql persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")
	if len(parts) < 2 {
		return "file"
	}

	return parts[0]
}
