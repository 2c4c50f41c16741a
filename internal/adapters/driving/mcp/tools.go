package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string  `json:"query" jsonschema:"the search query to find workbooks, datasources and views"`
	Limit     int     `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum similarity score between 0 and 1 (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ObjectID    string  `json:"object_id"`
	ObjectType  string  `json:"object_type"`
	Title       string  `json:"title"`
	Project     string  `json:"project,omitempty"`
	Owner       string  `json:"owner,omitempty"`
	URL         string  `json:"url,omitempty"`
	Score       float64 `json:"score"`
	Lexical     bool    `json:"lexical,omitempty"`
	Description string  `json:"description,omitempty"`
}

// SimilarInput is the input schema for the similar_objects tool.
type SimilarInput struct {
	ObjectID string `json:"object_id" jsonschema:"the object to find neighbours of"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SuggestInput is the input schema for the suggest_titles tool.
type SuggestInput struct {
	Prefix string `json:"prefix" jsonschema:"the partial title to complete"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of suggestions (default 10)"`
}

// SuggestOutput is the output schema for the suggest_titles tool.
type SuggestOutput struct {
	Titles []string `json:"titles"`
}

// StatsInput is the (empty) input schema for the search_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the search_stats tool.
type StatsOutput struct {
	TotalObjects          int     `json:"total_objects"`
	ObjectsWithEmbeddings int     `json:"objects_with_embeddings"`
	EmbeddingCoverage     float64 `json:"embedding_coverage"`
	ObjectTypes           int     `json:"object_types"`
	Projects              int     `json:"projects"`
	AvgTextLength         float64 `json:"avg_text_length"`
}

// NewsInput is the input schema for the latest_news tool.
type NewsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of articles (default 5)"`
}

// NewsOutput is the output schema for the latest_news tool.
type NewsOutput struct {
	Articles []NewsArticleOutput `json:"articles"`
}

// NewsArticleOutput represents a single news article.
type NewsArticleOutput struct {
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"`
	Category    string `json:"category,omitempty"`
	PublishedAt string `json:"published_at"`
}

// ClassifyInput is the input schema for the classify_intent tool.
type ClassifyInput struct {
	Query string `json:"query" jsonschema:"the user query to classify"`
}

// ClassifyOutput is the output schema for the classify_intent tool.
type ClassifyOutput struct {
	Intent string `json:"intent"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed BI metadata for workbooks, datasources and views",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "similar_objects",
		Description: "Find objects similar to a given workbook, datasource or view",
	}, s.handleSimilar)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_titles",
		Description: "Complete a partial query with indexed object titles",
	}, s.handleSuggest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_stats",
		Description: "Summarize the searchable corpus",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "latest_news",
		Description: "List the latest data team news articles",
	}, s.handleNews)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_intent",
		Description: "Classify a user query's intent before searching",
	}, s.handleClassify)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	threshold := input.Threshold
	if threshold <= 0 {
		threshold = -1
	}

	results, err := s.ports.Search.Search(ctx, input.Query, input.Limit, threshold)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, searchOutput(results), nil
}

// handleSimilar handles the similar_objects tool invocation.
func (s *Server) handleSimilar(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SimilarInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Search.SimilarObjects(ctx, input.ObjectID, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, searchOutput(results), nil
}

// handleSuggest handles the suggest_titles tool invocation.
func (s *Server) handleSuggest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SuggestInput,
) (*mcp.CallToolResult, SuggestOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	titles, err := s.ports.Search.Suggestions(ctx, input.Prefix, limit)
	if err != nil {
		return nil, SuggestOutput{}, err
	}

	return nil, SuggestOutput{Titles: titles}, nil
}

// handleStats handles the search_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Search.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		TotalObjects:          stats.TotalObjects,
		ObjectsWithEmbeddings: stats.ObjectsWithEmbeddings,
		EmbeddingCoverage:     stats.EmbeddingCoverage,
		ObjectTypes:           stats.ObjectTypes,
		Projects:              stats.Projects,
		AvgTextLength:         stats.AvgTextLength,
	}, nil
}

// handleNews handles the latest_news tool invocation.
func (s *Server) handleNews(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NewsInput,
) (*mcp.CallToolResult, NewsOutput, error) {
	if s.ports.Store == nil {
		return nil, NewsOutput{Articles: []NewsArticleOutput{}}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	articles, err := s.ports.Store.LatestNewsArticles(ctx, limit)
	if err != nil {
		return nil, NewsOutput{}, err
	}

	output := NewsOutput{Articles: make([]NewsArticleOutput, len(articles))}
	for i := range articles {
		output.Articles[i] = NewsArticleOutput{
			Title:       articles[i].Title,
			Summary:     articles[i].Summary,
			URL:         articles[i].URL,
			Source:      articles[i].Source,
			Category:    articles[i].Category,
			PublishedAt: articles[i].PublishedAt.Format("2006-01-02"),
		}
	}

	return nil, output, nil
}

// handleClassify handles the classify_intent tool invocation.
func (s *Server) handleClassify(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	return nil, ClassifyOutput{Intent: domain.ClassifyIntent(input.Query).String()}, nil
}

func searchOutput(results []domain.SearchResult) SearchOutput {
	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		rec := results[i].Record
		output.Results[i] = SearchResultOutput{
			ObjectID:    rec.ObjectID,
			ObjectType:  rec.ObjectType.String(),
			Title:       rec.Title,
			Project:     rec.ProjectName,
			Owner:       rec.Owner,
			URL:         rec.DeepLinkURL,
			Score:       results[i].SimilarityScore,
			Lexical:     results[i].Lexical,
			Description: domain.ParseDescription(rec.Description).SearchText(),
		}
	}

	return output
}
