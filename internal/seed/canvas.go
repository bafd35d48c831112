// Package seed fills a database with a demo workspace
package seed

import (
	"context"
	"fmt"
	"log/slog"

	models "tessera/internal/domain/models/canvas"
	canvasSvc "tessera/internal/domain/services/canvas"
)

// DemoWorkspaceName names the seeded workspace
const DemoWorkspaceName = "Getting started"

// CanvasSeeder creates demo content through the regular services so
// validation and wrapper containment apply
type CanvasSeeder struct {
	workspaces canvasSvc.WorkspaceService
	elements   canvasSvc.ElementService
	logger     *slog.Logger
}

// NewCanvasSeeder creates a new canvas seeder
func NewCanvasSeeder(workspaces canvasSvc.WorkspaceService, elements canvasSvc.ElementService, logger *slog.Logger) *CanvasSeeder {
	return &CanvasSeeder{workspaces: workspaces, elements: elements, logger: logger}
}

// SeedDemo creates the demo workspace for ownerID and lays out its
// elements. Content elements are created before the wrappers so each
// wrapper picks up its children on creation.
func (s *CanvasSeeder) SeedDemo(ctx context.Context, ownerID string) (*models.Workspace, error) {
	ws, err := s.workspaces.CreateWorkspace(ctx, &canvasSvc.CreateWorkspaceRequest{
		OwnerID: ownerID,
		Name:    DemoWorkspaceName,
	})
	if err != nil {
		return nil, fmt.Errorf("create demo workspace: %w", err)
	}

	actor := canvasSvc.Actor{UserID: ownerID}
	layout := DemoLayout()
	for i := range layout {
		if _, err := s.elements.CreateElement(ctx, ws.ID, actor, &layout[i]); err != nil {
			return nil, fmt.Errorf("create demo element %d (%s): %w", i, layout[i].Type, err)
		}
	}

	s.logger.Info("demo workspace seeded",
		"workspace_id", ws.ID,
		"elements", len(layout),
		"owner_id", ownerID,
	)
	return ws, nil
}

// DemoLayout returns two sections, one per wrapper, plus a loose sticky
// note outside both. Wrappers come last.
func DemoLayout() []canvasSvc.CreateElementRequest {
	html := func(s string) map[string]interface{} { return map[string]interface{}{models.ContentHTMLKey: s} }
	at := func(x, y float64) *models.Position { return &models.Position{X: x, Y: y} }
	size := func(w, h float64) *models.Dimensions { return &models.Dimensions{Width: w, Height: h} }

	return []canvasSvc.CreateElementRequest{
		{Type: models.TypeTitle, Position: at(40, 40), Dimensions: size(720, 100), Content: html("<h1>Welcome to the canvas</h1>")},
		{Type: models.TypeDescription, Position: at(40, 160), Dimensions: size(720, 160), Content: html("<p>Drag elements around, resize wrappers, and zoom in on anything.</p>")},
		{Type: models.TypeText, Position: at(40, 340), Dimensions: size(340, 80), Content: html("<p>Wrappers group what sits fully inside them.</p>")},
		{Type: models.TypeCard, Position: at(420, 340), Dimensions: size(340, 220), Content: html("<p>The post view reads wrappers top to bottom.</p>")},

		{Type: models.TypeTitle, Position: at(40, 1040), Dimensions: size(720, 100), Content: html("<h1>Examples</h1>")},
		{Type: models.TypeExample, Position: at(40, 1160), Dimensions: size(400, 240), Content: html("<pre>ZoomTo(element)</pre>")},
		{Type: models.TypeSubtext, Position: at(460, 1160), Dimensions: size(300, 60), Content: html("<p>Deep links open at an element.</p>")},

		{Type: models.TypeStickyNote, Position: at(1000, 200), Content: html("<p>Outside every wrapper</p>")},

		{Type: models.TypeWrapper, Position: at(0, 0), Dimensions: size(800, 600)},
		{Type: models.TypeWrapper, Position: at(0, 1000), Dimensions: size(800, 440)},
	}
}
