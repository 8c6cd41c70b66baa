// Package mcpadapter exposes the recommendation engine as MCP tools.
package mcpadapter

import (
	"context"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
)

const (
	serverName    = "perfume-recommender"
	serverVersion = "1.0.0"

	RecommendToolName = "recommend_perfumes"
	ListVibesToolName = "list_vibes"
)

type Server struct {
	recommender ports.Recommender
	catalog     ports.CatalogBrowser
	offline     bool
}

type Option func(*Server)

// WithOffline makes recommend_perfumes skip the language model.
func WithOffline() Option {
	return func(s *Server) {
		s.offline = true
	}
}

func New(recommender ports.Recommender, catalog ports.CatalogBrowser, opts ...Option) *Server {
	s := &Server{recommender: recommender, catalog: catalog}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))
	srv.AddTool(recommendTool(), s.handleRecommend)
	srv.AddTool(listVibesTool(), s.handleListVibes)
	return srv
}

// ServeStdio blocks until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCPServer())
}

func recommendTool() mcp.Tool {
	return mcp.NewTool(RecommendToolName,
		mcp.WithDescription("Rank catalog perfumes against free-text answers and selected vibe slugs."),
		mcp.WithArray("answers",
			mcp.Description("Free-text answers describing moods, places and habits."),
			mcp.WithStringItems(),
		),
		mcp.WithArray("vibes",
			mcp.Description("Vibe slugs chosen by the user, see list_vibes."),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results, defaults to 5."),
		),
	)
}

func listVibesTool() mcp.Tool {
	return mcp.NewTool(ListVibesToolName,
		mcp.WithDescription("List the vibe categories known to the catalog."),
	)
}

func (s *Server) handleRecommend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := domain.RecommendRequest{
		FreeTextAnswers:       request.GetStringSlice("answers", nil),
		SelectedCategorySlugs: request.GetStringSlice("vibes", nil),
		ResultLimit:           request.GetInt("limit", domain.DefaultResultLimit),
	}
	if len(req.FreeTextAnswers) == 0 && len(req.SelectedCategorySlugs) == 0 {
		return mcp.NewToolResultError("provide at least one of answers or vibes"), nil
	}

	var opts []ports.RecommendOption
	if s.offline {
		opts = append(opts, ports.WithoutEnrichment())
	}
	rec, err := s.recommender.Recommend(ctx, req, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "mcp_recommend_failed", "error", err)
		return mcp.NewToolResultError("unable to compute recommendations"), nil
	}
	return jsonResult(newRecommendResult(rec))
}

func (s *Server) handleListVibes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "mcp_list_vibes_failed", "error", err)
		return mcp.NewToolResultError("catalog unavailable"), nil
	}
	return jsonResult(categories)
}

type recommendResult struct {
	CatalogVersion string       `json:"catalogVersion"`
	ProfileStatus  string       `json:"profileStatus"`
	Results        []resultItem `json:"results"`
}

type resultItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Score           float64  `json:"score"`
	MatchedVibes    []string `json:"matchedVibes"`
	MatchedKeywords []string `json:"matchedKeywords"`
	Explanation     string   `json:"explanation,omitempty"`
}

func newRecommendResult(rec domain.Recommendation) recommendResult {
	out := recommendResult{
		CatalogVersion: rec.CatalogVersion,
		ProfileStatus:  string(rec.ProfileStatus),
		Results:        make([]resultItem, 0, len(rec.Items)),
	}
	for _, scored := range rec.Items {
		vibes := make([]string, 0, len(scored.MatchedCategories))
		for _, category := range scored.MatchedCategories {
			vibes = append(vibes, category.Slug)
		}
		out.Results = append(out.Results, resultItem{
			ID:              scored.Item.ID,
			Name:            scored.Item.Name,
			Brand:           scored.Item.Brand,
			Score:           domain.RoundScore(scored.Score),
			MatchedVibes:    vibes,
			MatchedKeywords: scored.MatchedKeywords,
			Explanation:     scored.Explanation,
		})
	}
	return out
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
