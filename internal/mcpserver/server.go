// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes ppage tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wsqstar/ppage/internal/apperr"
	"github.com/wsqstar/ppage/internal/docs"
	"github.com/wsqstar/ppage/internal/graph"
	"github.com/wsqstar/ppage/internal/site"
)

const formatURI = "ppage://document-format"

// Server wraps the MCP server with ppage tools.
type Server struct {
	mcp *server.MCPServer
	svc *site.Service
}

// New creates a new MCP server with all ppage tools registered.
func New(svc *site.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"ppage",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Search documents by title, body text or tag."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the Markdown source of a document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document identifier (e.g. guide-intro)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List documents as id, title and path, optionally filtered."),
		mcp.WithString("collection", mcp.Description("Only documents in this collection")),
		mcp.WithString("folder", mcp.Description("Only documents in this top-level folder")),
		mcp.WithString("sort", mcp.Description("Sort mode"), mcp.Enum("order", "title", "date", "path")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("get_links",
		mcp.WithDescription("Get the outgoing links and backlinks of a document as JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document identifier")),
	), s.getLinks)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all documents that link to the specified document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document identifier")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the link neighborhood of a document as JSON nodes and edges."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Center document identifier")),
		mcp.WithString("depth", mcp.Description(`Hop limit, or "all" for no limit (server default when omitted)`)),
	), s.getGraph)

	s.mcp.AddTool(mcp.NewTool("get_document_format",
		mcp.WithDescription("Returns the ppage document format: attributes, link forms and language rules. "+
			"Call this before writing content so links resolve."),
	), s.getDocumentFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Document Format",
			mcp.WithResourceDescription("How ppage reads document attributes, links and languages."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDocumentFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotReady) {
		return mcp.NewToolResultError("content is still loading, retry shortly")
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(query, req.GetInt("limit", 20))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(results)
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Document(id)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(d.RawText), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.svc.Documents(site.Filter{
		Sort:       docs.Mode(req.GetString("sort", "")),
		Collection: req.GetString("collection", ""),
		Folder:     req.GetString("folder", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("no documents found"), nil
	}
	lines := make([]string, 0, len(list))
	for _, d := range list {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", d.ID, d.Title, d.Path))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	links, err := s.svc.Links(id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(links)
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	links, err := s.svc.Links(id)
	if err != nil {
		return toolError(err), nil
	}
	if len(links.Incoming) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	lines := make([]string, 0, len(links.Incoming))
	for _, bl := range links.Incoming {
		lines = append(lines, fmt.Sprintf("%s (%s)", bl.ID, bl.Type))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	depth := site.UseDefaultDepth
	switch raw := req.GetString("depth", ""); raw {
	case "":
	case "all":
		depth = graph.Unbounded
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid depth %q", raw)), nil
		}
		depth = n
	}
	g, err := s.svc.Graph(id, depth, 0, 0)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(g)
}

func (s *Server) getDocumentFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormatContract), nil
}

func (s *Server) readDocumentFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}
