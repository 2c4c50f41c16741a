package mcp

import (
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides hybrid search over the indexed metadata.
	Search driving.SearchService

	// Store backs the news and record detail surfaces. Optional; the
	// tools that need it report empty results without it.
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
