package canvas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tessera/internal/config"
	"tessera/internal/domain"
	models "tessera/internal/domain/models/canvas"
	canvasRepo "tessera/internal/domain/repositories/canvas"
	canvasSvc "tessera/internal/domain/services/canvas"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// workspaceService implements the WorkspaceService interface
type workspaceService struct {
	workspaceRepo canvasRepo.WorkspaceRepository
	logger        *slog.Logger
	now           func() time.Time
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaceRepo canvasRepo.WorkspaceRepository,
	logger *slog.Logger,
) canvasSvc.WorkspaceService {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateWorkspace creates a new workspace for its owner
func (s *workspaceService) CreateWorkspace(ctx context.Context, req *canvasSvc.CreateWorkspaceRequest) (*models.Workspace, error) {
	if err := validateCreateWorkspace(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.now()
	workspace := &models.Workspace{
		OwnerID:   req.OwnerID,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, err
	}

	s.logger.Info("workspace created",
		"id", workspace.ID,
		"name", workspace.Name,
		"owner_id", workspace.OwnerID,
	)

	return workspace, nil
}

// GetWorkspace retrieves a workspace by ID
func (s *workspaceService) GetWorkspace(ctx context.Context, id, userID string) (*models.Workspace, error) {
	return s.workspaceRepo.GetByID(ctx, id, userID)
}

// ListWorkspaces retrieves all workspaces for a user
func (s *workspaceService) ListWorkspaces(ctx context.Context, userID string) ([]models.Workspace, error) {
	return s.workspaceRepo.List(ctx, userID)
}

// UpdateWorkspace renames a workspace. A request without changes returns
// the workspace as stored.
func (s *workspaceService) UpdateWorkspace(ctx context.Context, id, userID string, req *canvasSvc.UpdateWorkspaceRequest) (*models.Workspace, error) {
	if err := validateUpdateWorkspace(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name == nil {
		return workspace, nil
	}

	workspace.Name = strings.TrimSpace(*req.Name)
	workspace.UpdatedAt = s.now()

	if err := s.workspaceRepo.Update(ctx, workspace); err != nil {
		return nil, err
	}

	s.logger.Info("workspace updated",
		"id", workspace.ID,
		"name", workspace.Name,
		"owner_id", userID,
	)

	return workspace, nil
}

// DeleteWorkspace deletes a workspace and its elements
func (s *workspaceService) DeleteWorkspace(ctx context.Context, id, userID string) error {
	if err := s.workspaceRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("workspace deleted",
		"id", id,
		"owner_id", userID,
	)

	return nil
}

func validateCreateWorkspace(req *canvasSvc.CreateWorkspaceRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxWorkspaceNameLength),
		),
	)
}

func validateUpdateWorkspace(req *canvasSvc.UpdateWorkspaceRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxWorkspaceNameLength),
		),
	)
}

func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return nil
	}
	if s != "" && strings.TrimSpace(s) == "" {
		return fmt.Errorf("must not be blank")
	}
	return nil
}
