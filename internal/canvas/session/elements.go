package session

import (
	"context"
	"errors"

	"tessera/internal/canvas/viewport"
	models "tessera/internal/domain/models/canvas"
)

var errEmptyCreate = errors.New("create returned no element")

// Load replaces the element set, typically after the initial fetch, and
// triggers a pending deep link
func (s *Session) Load(elements []models.Element) error {
	return s.Do(func() { s.load(elements) })
}

func (s *Session) load(elements []models.Element) {
	s.elements.Load(elements)
	s.bounds.Reset()
	for i := range elements {
		s.content.Confirm(elements[i].ID, elements[i].HTML())
	}
	if s.pendingLink != "" {
		s.view.DeepLinks().Offer(s.pendingLink, true)
		s.pendingLink = ""
	}
	s.logger.Debug("elements loaded", "count", len(elements))
}

// SwitchWorkspace moves the session to another workspace and its elements
func (s *Session) SwitchWorkspace(workspaceID string, elements []models.Element) error {
	return s.Do(func() {
		s.cancelGesture()
		s.content.Stop()
		s.workspaceID = workspaceID
		s.logger = s.logger.With("workspace_id", workspaceID)
		s.view.SwitchWorkspace(workspaceID)
		clear(s.deletedTemps)
		s.load(elements)
	})
}

// DeepLink handles an element ID from the page URL. Before elements are
// loaded it is held and offered on the next Load.
func (s *Session) DeepLink(elementID string) error {
	return s.Do(func() {
		if s.elements.Len() == 0 {
			s.pendingLink = elementID
			return
		}
		s.view.DeepLinks().Offer(elementID, true)
	})
}

// ZoomTo frames an element
func (s *Session) ZoomTo(req viewport.ZoomRequest) (bool, error) {
	var ok bool
	err := s.Do(func() { ok = s.view.ZoomTo(req, s.elements.Elements()) })
	return ok, err
}

// CreateElement inserts draft optimistically and persists it. The returned
// temporary ID is replaced once the server answers.
func (s *Session) CreateElement(draft models.Element) (string, error) {
	var tempID string
	err := s.Do(func() {
		draft.WorkspaceID = s.workspaceID
		tempID = s.elements.BeginCreate(draft)
		if s.api == nil {
			return
		}
		workspaceID := s.workspaceID
		s.background(func(ctx context.Context) {
			persisted, err := s.api.Create(ctx, workspaceID, draft)
			s.post(func() { s.finishCreate(tempID, persisted, err) })
		})
	})
	return tempID, err
}

func (s *Session) finishCreate(tempID string, persisted *models.Element, err error) {
	if err == nil && persisted == nil {
		err = errEmptyCreate
	}
	if err != nil {
		s.elements.AbandonCreate(tempID)
		s.notify("Failed to create element", err)
		return
	}
	if _, deleted := s.deletedTemps[tempID]; deleted {
		delete(s.deletedTemps, tempID)
		s.elements.AbandonCreate(tempID)
		s.persistDelete(persisted.ID)
		return
	}
	if err := s.elements.ResolveCreate(tempID, *persisted); err != nil {
		s.logger.Debug("create resolution ignored", "temp_id", tempID, "error", err)
		return
	}
	s.content.Confirm(persisted.ID, persisted.HTML())
}

// UpdateElement applies a full-object edit locally and persists it
func (s *Session) UpdateElement(el models.Element) error {
	return s.Do(func() { s.applyUpdate(el) })
}

func (s *Session) applyUpdate(el models.Element) {
	s.elements.ApplyLocalUpdate(el)
	if el.IsTemporary() || s.api == nil {
		return
	}
	s.background(func(ctx context.Context) {
		if _, err := s.api.Update(ctx, el); err != nil {
			s.post(func() { s.notify("Failed to save element", err) })
		}
	})
}

// DeleteElement removes an element locally and persists the removal
func (s *Session) DeleteElement(id string) error {
	return s.Do(func() {
		if !s.elements.ApplyLocalDelete(id) {
			return
		}
		s.content.Cancel(id)
		if models.IsTempID(id) {
			if s.elements.Pending(id) {
				s.deletedTemps[id] = struct{}{}
			}
			return
		}
		s.persistDelete(id)
	})
}

func (s *Session) persistDelete(id string) {
	if s.api == nil {
		return
	}
	s.background(func(ctx context.Context) {
		if err := s.api.Delete(ctx, id); err != nil {
			s.post(func() { s.notify("Failed to delete element", err) })
		}
	})
}

// EditContent records an in-progress text edit. The local copy changes at
// once; persistence waits until edits on the element go quiet.
func (s *Session) EditContent(id, html string) error {
	return s.Do(func() {
		el, ok := s.elements.Get(id)
		if !ok || (s.editableText != nil && !s.editableText(el.Type)) {
			return
		}
		el.SetHTML(html)
		s.elements.ApplyLocalUpdate(*el)
		s.content.Push(id, html)
	})
}

// persistContent runs on the loop when an element's edits settle
func (s *Session) persistContent(id, html string) {
	el, ok := s.elements.Get(id)
	if !ok || el.IsTemporary() || s.api == nil {
		return
	}
	el.SetHTML(html)
	s.background(func(ctx context.Context) {
		_, err := s.api.Update(ctx, *el)
		s.post(func() {
			if err != nil {
				s.notify("Failed to save content", err)
				return
			}
			s.content.Confirm(id, html)
		})
	})
}

// RemoteCreated applies a collaborator's new element
func (s *Session) RemoteCreated(el models.Element) error {
	return s.Do(func() {
		s.elements.RemoteCreated(el)
		s.content.Confirm(el.ID, el.HTML())
	})
}

// RemoteUpdated applies a collaborator's edit, replacing the whole element
func (s *Session) RemoteUpdated(el models.Element) error {
	return s.Do(func() {
		s.elements.RemoteUpdated(el)
		s.content.Confirm(el.ID, el.HTML())
	})
}

// RemoteDeleted applies a collaborator's removal
func (s *Session) RemoteDeleted(id string) error {
	return s.Do(func() {
		s.elements.RemoteDeleted(id)
		delete(s.preview, id)
	})
}
