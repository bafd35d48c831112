package canvas

import models "tessera/internal/domain/models/canvas"

// IsInside reports whether element lies entirely within wrapper.
// Touching edges count as inside; wrappers never nest.
func IsInside(element, wrapper *models.Element) bool {
	if element == nil || wrapper == nil {
		return false
	}
	if element.ID == wrapper.ID || element.IsWrapper() {
		return false
	}
	eb, ok := ElementRect(element)
	if !ok {
		return false
	}
	wb, ok := ElementRect(wrapper)
	if !ok {
		return false
	}
	return wb.Contains(eb)
}

// ComputeChildren scans all elements for those inside wrapper, in input order
func ComputeChildren(wrapper *models.Element, all []models.Element) []string {
	children := []string{}
	for i := range all {
		if IsInside(&all[i], wrapper) {
			children = append(children, all[i].ID)
		}
	}
	return children
}

// RecomputeWrapper refreshes wrapper.content.childElements against all.
// Non-wrappers are left untouched.
func RecomputeWrapper(wrapper *models.Element, all []models.Element) {
	if !wrapper.IsWrapper() {
		return
	}
	wrapper.SetChildElementIDs(ComputeChildren(wrapper, all))
}
