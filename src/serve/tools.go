package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mattstanbrell/amped/src/docmeta"
	"github.com/mattstanbrell/amped/src/pipeline"
)

// registerTools adds the docs tools to the server. Lookup failures are
// tool errors (IsError results), not protocol errors, so a client can
// recover by listing and retrying.
func registerTools(srv *mcp.Server, conv *pipeline.Converter, logger *slog.Logger) {
	srv.AddTool(&mcp.Tool{
		Name:        "list_platforms",
		Description: "List the platforms the documentation covers.",
		InputSchema: map[string]any{"type": "object"},
	}, listPlatformsHandler())

	srv.AddTool(&mcp.Tool{
		Name:        "list_docs",
		Description: "List the documentation pages available for a platform.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"platform": map[string]any{
					"type":        "string",
					"description": "Platform tag, e.g. react or android.",
				},
			},
			"required": []string{"platform"},
		},
	}, listDocsHandler(conv, logger))

	srv.AddTool(&mcp.Tool{
		Name:        "read_doc",
		Description: "Read one documentation page, converted to markdown for the given platform.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Page path as returned by list_docs.",
				},
				"platform": map[string]any{
					"type": "string",
				},
			},
			"required": []string{"path", "platform"},
		},
	}, readDocHandler(conv, logger))
}

func listPlatformsHandler() mcp.ToolHandler {
	return func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(strings.Join(docmeta.Platforms, "\n")), nil
	}
}

func listDocsHandler(conv *pipeline.Converter, logger *slog.Logger) mcp.ToolHandler {
	return func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Platform string `json:"platform"`
		}
		if err := bindArgs(req, &args); err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if !docmeta.IsPlatform(args.Platform) {
			return errorResult(fmt.Sprintf("unknown platform %q", args.Platform)), nil
		}

		docs, err := conv.ListDocs(args.Platform)
		if err != nil {
			logger.Error("listing docs failed", "platform", args.Platform, "error", err)
			return errorResult(fmt.Sprintf("listing docs: %v", err)), nil
		}

		var b strings.Builder
		for _, doc := range docs {
			if doc.Title != "" {
				fmt.Fprintf(&b, "%s\t%s\n", doc.Path, doc.Title)
			} else {
				fmt.Fprintf(&b, "%s\n", doc.Path)
			}
		}
		return textResult(b.String()), nil
	}
}

func readDocHandler(conv *pipeline.Converter, logger *slog.Logger) mcp.ToolHandler {
	return func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Path     string `json:"path"`
			Platform string `json:"platform"`
		}
		if err := bindArgs(req, &args); err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if !docmeta.IsPlatform(args.Platform) {
			return errorResult(fmt.Sprintf("unknown platform %q", args.Platform)), nil
		}

		doc, err := conv.ReadDoc(args.Path, args.Platform)
		if err != nil {
			logger.Warn("doc lookup failed", "path", args.Path, "platform", args.Platform, "error", err)
			return errorResult(fmt.Sprintf("reading doc: %v", err)), nil
		}
		return textResult(doc.Markdown), nil
	}
}

// bindArgs decodes the tool arguments into v regardless of whether the
// SDK delivered them raw or already unmarshalled.
func bindArgs(req *mcp.CallToolRequest, v any) error {
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
