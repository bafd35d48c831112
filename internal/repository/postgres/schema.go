package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaStatements returns the DDL creating the canvas tables
func SchemaStatements(t *TableNames) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner_id    TEXT NOT NULL,
			name        VARCHAR(255) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, t.Workspaces),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_owner_idx ON %[1]s (owner_id, updated_at DESC)`, t.Workspaces),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			workspace_id  UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			type          VARCHAR(32) NOT NULL,
			x             DOUBLE PRECISION,
			y             DOUBLE PRECISION,
			z             DOUBLE PRECISION,
			width         DOUBLE PRECISION CHECK (width IS NULL OR width >= 0),
			height        DOUBLE PRECISION CHECK (height IS NULL OR height >= 0),
			content       JSONB NOT NULL DEFAULT '{}'::jsonb,
			style         JSONB NOT NULL DEFAULT '{}'::jsonb,
			locked        BOOLEAN NOT NULL DEFAULT false,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, t.Elements, t.Workspaces),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_workspace_idx ON %[1]s (workspace_id)`, t.Elements),
	}
}

// DropStatements returns the DDL removing the canvas tables
func DropStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Elements),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Workspaces),
	}
}

// ExecStatements runs each statement in order, stopping at the first failure
func ExecStatements(ctx context.Context, pool *pgxpool.Pool, statements []string) error {
	for i, stmt := range statements {
		if _, err := GetExecutor(ctx, pool).Exec(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}
