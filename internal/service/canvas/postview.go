package canvas

import (
	"context"
	"log/slog"
	"sort"

	"tessera/internal/canvas"
	models "tessera/internal/domain/models/canvas"
	canvasRepo "tessera/internal/domain/repositories/canvas"
	canvasSvc "tessera/internal/domain/services/canvas"
	"tessera/internal/sanitizer"
)

var titleText = sanitizer.New()

// postViewService implements the PostViewService interface
type postViewService struct {
	elementRepo   canvasRepo.ElementRepository
	workspaceRepo canvasRepo.WorkspaceRepository
	logger        *slog.Logger
}

// NewPostViewService creates a new post view service
func NewPostViewService(
	elementRepo canvasRepo.ElementRepository,
	workspaceRepo canvasRepo.WorkspaceRepository,
	logger *slog.Logger,
) canvasSvc.PostViewService {
	return &postViewService{
		elementRepo:   elementRepo,
		workspaceRepo: workspaceRepo,
		logger:        logger,
	}
}

// GetPostView lays a workspace out as a linear post, one section per wrapper
func (s *postViewService) GetPostView(ctx context.Context, workspaceID, userID string) (*models.PostView, error) {
	if _, err := s.workspaceRepo.GetByID(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	elements, err := s.elementRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	view := BuildPostView(workspaceID, elements)
	s.logger.Debug("post view built",
		"workspace_id", workspaceID,
		"sections", len(view.Sections),
	)
	return view, nil
}

// BuildPostView groups elements under the wrappers that contain them.
// Wrappers run top to bottom, then left to right, and so do the elements
// inside each. Containment is recomputed rather than read from stored
// child lists. Wrappers without geometry are skipped.
func BuildPostView(workspaceID string, elements []models.Element) *models.PostView {
	wrappers := make([]models.Element, 0)
	for i := range elements {
		if elements[i].IsWrapper() && elements[i].HasGeometry() {
			wrappers = append(wrappers, elements[i])
		}
	}
	sortReadingOrder(wrappers)

	view := &models.PostView{WorkspaceID: workspaceID, Sections: []models.PostSection{}}
	for i := range wrappers {
		w := &wrappers[i]
		children := make([]models.Element, 0)
		for j := range elements {
			if canvas.IsInside(&elements[j], w) {
				children = append(children, elements[j])
			}
		}
		sortReadingOrder(children)

		view.Sections = append(view.Sections, models.PostSection{
			WrapperID: w.ID,
			Title:     sectionTitle(children),
			Elements:  children,
		})
	}
	return view
}

func sortReadingOrder(elements []models.Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		a, b := elements[i].Position, elements[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

// sectionTitle uses the first title element's text
func sectionTitle(children []models.Element) string {
	for i := range children {
		if children[i].Type == models.TypeTitle {
			return titleText.Text(children[i].HTML())
		}
	}
	return ""
}
