// Package tui provides an interactive terminal user interface for vizier.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides hybrid search over the indexed metadata.
	Search driving.SearchService

	// Store serves fresh record details for the detail pane. Optional;
	// without it the detail pane renders the search result's snapshot.
	Store driven.MetadataStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Store is optional
	return nil
}
