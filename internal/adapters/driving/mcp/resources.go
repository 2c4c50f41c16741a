package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Vizier resources.
	uriScheme = "vizier://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for corpus statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Statistics about the indexed metadata corpus",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	// Template for object details.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "objects/{objectId}",
		Name:        "object-detail",
		Description: "Full normalized record for one workbook, datasource or view",
		MIMEType:    "application/json",
	}, s.handleObjectResource)
}

// handleStatsResource returns the search corpus statistics.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Search.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting stats: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleObjectResource returns one record by object ID.
func (s *Server) handleObjectResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Store == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract objectId from URI: vizier://objects/{objectId}
	objectID := extractObjectID(req.Params.URI)
	if objectID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	record, err := s.ports.Store.FindByObjectID(ctx, objectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("loading record: %w", err)
	}

	// The embedding is provider-internal and large; strip it.
	type recordDetail struct {
		ObjectID    string   `json:"object_id"`
		ObjectType  string   `json:"object_type"`
		Title       string   `json:"title"`
		Description string   `json:"description,omitempty"`
		Project     string   `json:"project,omitempty"`
		Owner       string   `json:"owner,omitempty"`
		Workbook    string   `json:"workbook,omitempty"`
		Tags        []string `json:"tags,omitempty"`
		Fields      []string `json:"fields,omitempty"`
		URL         string   `json:"url,omitempty"`
	}

	detail := recordDetail{
		ObjectID:    record.ObjectID,
		ObjectType:  record.ObjectType.String(),
		Title:       record.Title,
		Description: domain.ParseDescription(record.Description).SearchText(),
		Project:     record.ProjectName,
		Owner:       record.Owner,
		Workbook:    record.WorkbookName,
		Tags:        record.Tags,
		Fields:      record.Fields,
		URL:         record.DeepLinkURL,
	}

	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling record: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractObjectID extracts the object ID from a URI like vizier://objects/{objectId}.
func extractObjectID(uri string) string {
	const prefix = uriScheme + "objects/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
