// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the resources and TIL listings to LLM clients via stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/listing"
	"github.com/starford/folio/internal/storage"
)

const contractURI = "folio://content-format"

// Content is the read side of the content store.
type Content interface {
	Resources() []listing.Resource
	TIL() []listing.TILEntry
}

// Server wraps the MCP server with the listing tools.
type Server struct {
	mcp     *server.MCPServer
	content Content
	store   storage.Provider
	tilDir  string
}

// New creates a new MCP server. TIL note bodies are read from tilDir
// through store.
func New(c Content, store storage.Provider, tilDir string) *Server {
	s := &Server{content: c, store: store, tilDir: tilDir}

	s.mcp = server.NewMCPServer(
		"Folio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_resources",
		mcp.WithDescription("Case-insensitive substring search over resource titles, summaries, categories and types."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
		mcp.WithString("category", mcp.Description("Optional category to narrow the search")),
		mcp.WithString("type", mcp.Description("Optional resource type to narrow the search")),
	), s.searchResources)

	s.mcp.AddTool(mcp.NewTool("search_til",
		mcp.WithDescription("Case-insensitive substring search over TIL titles, descriptions and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
		mcp.WithString("tag", mcp.Description("Optional tag slug to narrow the search")),
	), s.searchTIL)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List TIL tags with their entry counts, most used first."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("list_facets",
		mcp.WithDescription("List the resource categories and types."),
	), s.listFacets)

	s.mcp.AddTool(mcp.NewTool("read_til",
		mcp.WithDescription("Read the Markdown source of a published TIL entry."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Entry slug (e.g. go/errors)")),
	), s.readTIL)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Content Format",
			mcp.WithResourceDescription("Layout of the resources cache file and the TIL notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server, for transports other than stdio.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type searchResult[E any] struct {
	Query   string `json:"query"`
	Summary string `json:"summary"`
	Results []E    `json:"results"`
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func runSearch[E any](entries []E, query string, l listing.Searchable[E]) searchResult[E] {
	term := strings.TrimSpace(query)
	hits := listing.Filter(entries, term, l)
	return searchResult[E]{Query: term, Summary: listing.Summary(len(hits), term), Results: hits}
}

func (s *Server) searchResources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query must not be blank"), nil
	}
	entries := content.FilterResources(s.content.Resources(), req.GetString("category", ""), req.GetString("type", ""))
	return jsonResult(runSearch(entries, query, listing.Resources{})), nil
}

func (s *Server) searchTIL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query must not be blank"), nil
	}
	entries := content.FilterTIL(s.content.TIL(), req.GetString("tag", ""))
	return jsonResult(runSearch(entries, query, listing.TIL{})), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags := content.TagCounts(s.content.TIL())
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags found"), nil
	}
	lines := make([]string, 0, len(tags))
	for _, t := range tags {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%d", t.Slug, t.Tag, t.Count))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listFacets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(content.ResourceFacets(s.content.Resources())), nil
}

func (s *Server) readTIL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	published := false
	for _, e := range s.content.TIL() {
		if e.Slug == slug {
			published = true
			break
		}
	}
	if !published {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	data, err := s.store.Read(path.Join(s.tilDir, slug+".md"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     ContentFormatContract,
		},
	}, nil
}
