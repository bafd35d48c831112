package config

const (
	// MaxWorkspaceNameLength is the maximum length for workspace names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxWorkspaceNameLength = 255

	// MaxElementsPerWorkspace caps a single canvas. The virtualizer keeps
	// rendering cheap, but every element is still loaded and scanned for
	// wrapper containment.
	MaxElementsPerWorkspace = 5000

	// MaxContentBytes is the largest serialized content object accepted
	// for one element
	MaxContentBytes = 256 * 1024

	// MaxElementExtent bounds any position or dimension value
	MaxElementExtent = 1_000_000
)
