package canvas

import (
	"context"
	"fmt"

	"tessera/internal/domain"
	models "tessera/internal/domain/models/canvas"
	canvasRepo "tessera/internal/domain/repositories/canvas"

	"tessera/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresWorkspaceRepository implements the WorkspaceRepository interface
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(config *postgres.RepositoryConfig) canvasRepo.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new workspace
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		workspace.OwnerID,
		workspace.Name,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	).Scan(&workspace.ID, &workspace.CreatedAt, &workspace.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace by ID for its owner
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Workspaces)

	var workspace models.Workspace
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, ownerID).Scan(
		&workspace.ID,
		&workspace.OwnerID,
		&workspace.Name,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidInputError(err) {
			return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	return &workspace, nil
}

// List retrieves all workspaces for an owner, ordered by updated_at DESC
func (r *PostgresWorkspaceRepository) List(ctx context.Context, ownerID string) ([]models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name, created_at, updated_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := []models.Workspace{}
	for rows.Next() {
		var workspace models.Workspace
		if err := rows.Scan(
			&workspace.ID,
			&workspace.OwnerID,
			&workspace.Name,
			&workspace.CreatedAt,
			&workspace.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}

	return workspaces, nil
}

// Update updates a workspace's name and updated_at timestamp
func (r *PostgresWorkspaceRepository) Update(ctx context.Context, workspace *models.Workspace) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		workspace.Name,
		workspace.UpdatedAt,
		workspace.ID,
		workspace.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", workspace.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a workspace; elements go with it (ON DELETE CASCADE)
func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		if postgres.IsPgInvalidInputError(err) {
			return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
