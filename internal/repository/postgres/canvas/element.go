package canvas

import (
	"context"
	"fmt"

	"tessera/internal/domain"
	models "tessera/internal/domain/models/canvas"
	canvasRepo "tessera/internal/domain/repositories/canvas"

	"tessera/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const elementColumns = `id, workspace_id, type, x, y, z, width, height, content, style, locked, created_at, updated_at`

// PostgresElementRepository implements the ElementRepository interface.
// Geometry lives in nullable columns so elements without a position or
// size round-trip as nil.
type PostgresElementRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewElementRepository creates a new element repository
func NewElementRepository(config *postgres.RepositoryConfig) canvasRepo.ElementRepository {
	return &PostgresElementRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new element
func (r *PostgresElementRepository) Create(ctx context.Context, element *models.Element) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, type, x, y, z, width, height, content, style, locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, r.tables.Elements)

	x, y, z, w, h := geometryArgs(element)
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		element.WorkspaceID,
		string(element.Type),
		x, y, z, w, h,
		jsonObject(element.Content),
		jsonObject(element.Style),
		element.Locked,
		element.CreatedAt,
		element.UpdatedAt,
	).Scan(&element.ID, &element.CreatedAt, &element.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("workspace %s: %w", element.WorkspaceID, domain.ErrNotFound)
		}
		if postgres.IsPgCheckViolation(err) {
			return &domain.ValidationError{Message: "element geometry rejected: " + err.Error()}
		}
		return fmt.Errorf("create element: %w", err)
	}

	return nil
}

// GetByID retrieves an element by ID
func (r *PostgresElementRepository) GetByID(ctx context.Context, id string) (*models.Element, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, elementColumns, r.tables.Elements)

	executor := postgres.GetExecutor(ctx, r.pool)
	element, err := scanElement(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidInputError(err) {
			return nil, fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get element: %w", err)
	}

	return element, nil
}

// ListByWorkspace retrieves a workspace's elements in render order
func (r *PostgresElementRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Element, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE workspace_id = $1
		ORDER BY z NULLS FIRST, created_at, id
	`, elementColumns, r.tables.Elements)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	elements := []models.Element{}
	for rows.Next() {
		element, err := scanElement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		elements = append(elements, *element)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate elements: %w", err)
	}

	return elements, nil
}

// CountByWorkspace returns how many elements a workspace holds
func (r *PostgresElementRepository) CountByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE workspace_id = $1`, r.tables.Elements)

	var n int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, workspaceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count elements: %w", err)
	}
	return n, nil
}

// Update replaces the element's mutable fields
func (r *PostgresElementRepository) Update(ctx context.Context, element *models.Element) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET type = $1, x = $2, y = $3, z = $4, width = $5, height = $6,
		    content = $7, style = $8, locked = $9, updated_at = $10
		WHERE id = $11
	`, r.tables.Elements)

	x, y, z, w, h := geometryArgs(element)
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		string(element.Type),
		x, y, z, w, h,
		jsonObject(element.Content),
		jsonObject(element.Style),
		element.Locked,
		element.UpdatedAt,
		element.ID,
	)
	if err != nil {
		if postgres.IsPgInvalidInputError(err) {
			return fmt.Errorf("element %s: %w", element.ID, domain.ErrNotFound)
		}
		if postgres.IsPgCheckViolation(err) {
			return &domain.ValidationError{Message: "element geometry rejected: " + err.Error()}
		}
		return fmt.Errorf("update element: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("element %s: %w", element.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes an element
func (r *PostgresElementRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Elements)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		if postgres.IsPgInvalidInputError(err) {
			return fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete element: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanElement(row pgx.Row) (*models.Element, error) {
	var (
		e              models.Element
		elementType    string
		x, y, z        *float64
		width, height  *float64
		content, style map[string]interface{}
	)
	err := row.Scan(
		&e.ID,
		&e.WorkspaceID,
		&elementType,
		&x, &y, &z,
		&width, &height,
		&content,
		&style,
		&e.Locked,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Type = models.ElementType(elementType)
	if x != nil && y != nil {
		e.Position = &models.Position{X: *x, Y: *y}
		if z != nil {
			e.Position.Z = *z
		}
	}
	if width != nil && height != nil {
		e.Dimensions = &models.Dimensions{Width: *width, Height: *height}
	}
	e.Content = content
	e.Style = style
	return &e, nil
}

func geometryArgs(e *models.Element) (x, y, z, w, h *float64) {
	if e.Position != nil {
		x, y, z = &e.Position.X, &e.Position.Y, &e.Position.Z
	}
	if e.Dimensions != nil {
		w, h = &e.Dimensions.Width, &e.Dimensions.Height
	}
	return
}

// jsonObject keeps NOT NULL JSONB columns at '{}' instead of null
func jsonObject(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
