package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates the service tables when they are missing. Migrations proper are
// managed outside this service; this keeps local and test databases usable.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
