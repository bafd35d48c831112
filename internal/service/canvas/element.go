package canvas

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tessera/internal/canvas"
	"tessera/internal/config"
	"tessera/internal/domain"
	models "tessera/internal/domain/models/canvas"
	"tessera/internal/domain/repositories"
	canvasRepo "tessera/internal/domain/repositories/canvas"
	canvasSvc "tessera/internal/domain/services/canvas"
	"tessera/internal/elementtypes"
	"tessera/internal/sanitizer"
)

// elementService implements the ElementService interface
type elementService struct {
	elementRepo   canvasRepo.ElementRepository
	workspaceRepo canvasRepo.WorkspaceRepository
	txManager     repositories.TransactionManager
	registry      *elementtypes.Registry
	virtualizer   *canvas.Virtualizer
	sanitizer     *sanitizer.HTMLSanitizer
	broadcaster   canvasSvc.Broadcaster
	logger        *slog.Logger
	now           func() time.Time
}

// NewElementService creates a new element service. broadcaster may be nil
// when no collaboration hub is running.
func NewElementService(
	elementRepo canvasRepo.ElementRepository,
	workspaceRepo canvasRepo.WorkspaceRepository,
	txManager repositories.TransactionManager,
	registry *elementtypes.Registry,
	settings canvas.Settings,
	broadcaster canvasSvc.Broadcaster,
	logger *slog.Logger,
) canvasSvc.ElementService {
	return &elementService{
		elementRepo:   elementRepo,
		workspaceRepo: workspaceRepo,
		txManager:     txManager,
		registry:      registry,
		virtualizer:   canvas.NewVirtualizer(settings),
		sanitizer:     sanitizer.New(),
		broadcaster:   broadcaster,
		logger:        logger,
		now:           time.Now,
	}
}

// ListElements returns a workspace's elements. With a viewport query only
// the elements that viewport would render are returned.
func (s *elementService) ListElements(ctx context.Context, workspaceID, userID string, view *canvasSvc.ViewportQuery) ([]models.Element, error) {
	if _, err := s.workspaceRepo.GetByID(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	elements, err := s.elementRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if view == nil {
		return elements, nil
	}

	vp := canvas.Viewport{X: view.X, Y: view.Y, Width: view.Width, Height: view.Height, Scale: view.Scale}
	return s.virtualizer.Select(elements, vp, view.EditMode, false), nil
}

// CreateElement places a new element, filling in the type's default size
func (s *elementService) CreateElement(ctx context.Context, workspaceID string, actor canvasSvc.Actor, req *canvasSvc.CreateElementRequest) (*models.Element, error) {
	fields := elementFields{
		Type:       req.Type,
		Position:   req.Position,
		Dimensions: req.Dimensions,
		Content:    req.Content,
		Style:      req.Style,
	}
	if err := validateElementFields(&fields, s.registry); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.workspaceRepo.GetByID(ctx, workspaceID, actor.UserID); err != nil {
		return nil, err
	}

	now := s.now()
	element := &models.Element{
		WorkspaceID: workspaceID,
		Type:        req.Type,
		Position:    req.Position,
		Dimensions:  req.Dimensions,
		Content:     s.sanitizer.Content(req.Content, models.ContentHTMLKey),
		Style:       req.Style,
		Locked:      req.Locked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if element.Dimensions == nil && element.Position != nil {
		if d, ok := s.registry.DefaultDimensions(element.Type); ok {
			element.Dimensions = &d
		}
	}
	if element.Content == nil {
		element.Content = map[string]interface{}{}
	}
	if element.Style == nil {
		element.Style = map[string]interface{}{}
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		count, err := s.elementRepo.CountByWorkspace(ctx, workspaceID)
		if err != nil {
			return err
		}
		if count >= config.MaxElementsPerWorkspace {
			return &domain.ValidationError{
				Message: fmt.Sprintf("workspace already holds the maximum of %d elements", config.MaxElementsPerWorkspace),
			}
		}

		if s.registry.Container(element.Type) {
			if err := s.recomputeChildren(ctx, element); err != nil {
				return err
			}
		}

		return s.elementRepo.Create(ctx, element)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("element created",
		"id", element.ID,
		"type", element.Type,
		"workspace_id", workspaceID,
		"user_id", actor.UserID,
	)

	s.broadcast(models.EventElementCreated, workspaceID, element, actor.ClientID)
	return element, nil
}

// UpdateElement replaces an element's fields. A wrapper's child list is
// recomputed from the stored geometry of its workspace.
func (s *elementService) UpdateElement(ctx context.Context, id string, actor canvasSvc.Actor, req *canvasSvc.UpdateElementRequest) (*models.Element, error) {
	fields := elementFields{
		Type:       req.Type,
		Position:   req.Position,
		Dimensions: req.Dimensions,
		Content:    req.Content,
		Style:      req.Style,
	}
	if err := validateElementFields(&fields, s.registry); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var element *models.Element
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.authorize(ctx, id, actor.UserID)
		if err != nil {
			return err
		}

		existing.Type = req.Type
		existing.Position = req.Position
		existing.Dimensions = req.Dimensions
		existing.Content = s.sanitizer.Content(req.Content, models.ContentHTMLKey)
		existing.Style = req.Style
		existing.Locked = req.Locked
		existing.UpdatedAt = s.now()
		if existing.Content == nil {
			existing.Content = map[string]interface{}{}
		}
		if existing.Style == nil {
			existing.Style = map[string]interface{}{}
		}

		if s.registry.Container(existing.Type) {
			if err := s.recomputeChildren(ctx, existing); err != nil {
				return err
			}
		}

		if err := s.elementRepo.Update(ctx, existing); err != nil {
			return err
		}
		element = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("element updated",
		"id", element.ID,
		"workspace_id", element.WorkspaceID,
		"user_id", actor.UserID,
	)

	s.broadcast(models.EventElementUpdated, element.WorkspaceID, element, actor.ClientID)
	return element, nil
}

// DeleteElement removes an element
func (s *elementService) DeleteElement(ctx context.Context, id string, actor canvasSvc.Actor) error {
	element, err := s.authorize(ctx, id, actor.UserID)
	if err != nil {
		return err
	}

	if err := s.elementRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("element deleted",
		"id", id,
		"workspace_id", element.WorkspaceID,
		"user_id", actor.UserID,
	)

	s.broadcast(models.EventElementDeleted, element.WorkspaceID, models.DeletedPayload{ElementID: id}, actor.ClientID)
	return nil
}

// authorize loads an element and checks the user owns its workspace.
// Elements in someone else's workspace report not found.
func (s *elementService) authorize(ctx context.Context, id, userID string) (*models.Element, error) {
	element, err := s.elementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.workspaceRepo.GetByID(ctx, element.WorkspaceID, userID); err != nil {
		return nil, fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	return element, nil
}

func (s *elementService) recomputeChildren(ctx context.Context, wrapper *models.Element) error {
	all, err := s.elementRepo.ListByWorkspace(ctx, wrapper.WorkspaceID)
	if err != nil {
		return err
	}
	canvas.RecomputeWrapper(wrapper, all)
	return nil
}

func (s *elementService) broadcast(eventType models.EventType, workspaceID string, payload interface{}, excludeClientID string) {
	if s.broadcaster == nil {
		return
	}
	event, err := models.NewEvent(eventType, workspaceID, payload)
	if err != nil {
		s.logger.Error("failed to encode event", "type", eventType, "error", err)
		return
	}
	event.SenderID = excludeClientID
	s.broadcaster.Broadcast(event, excludeClientID)
}
