package docpipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/morph/staging"
)

// RegisterMCP registers document tools on an MCP server: convert a file,
// parse it to blocks, list the supported formats.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerConvertTool(srv)
	p.registerParseTool(srv)
	p.registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool wires a decode/execute pair into the MCP server, serializing the
// response as a single JSON text content.
func addTool(srv *mcp.Server, tool *mcp.Tool, decode func(*mcp.CallToolRequest) (any, error), run func(context.Context, any) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		decoded, err := decode(req)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		resp, err := run(ctx, decoded)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- convert ---

type convertReq struct {
	Path   string `json:"path"`
	Target string `json:"target"`
}

func (p *Pipeline) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "morph_convert_document",
		Description: "Convert a document file to a target format (txt, md, docx, pdf). Returns the converted content.",
		InputSchema: inputSchema(map[string]any{
			"path":   map[string]any{"type": "string", "description": "Source file path"},
			"target": map[string]any{"type": "string", "description": "Target format: txt, md, docx, pdf"},
		}, []string{"path", "target"}),
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r convertReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	run := func(ctx context.Context, req any) (any, error) {
		r := req.(*convertReq)
		stage, err := staging.New("", p.cfg.Logger)
		if err != nil {
			return nil, err
		}
		defer stage.Close()

		out, err := p.Convert(ctx, stage, r.Path, Format(r.Target))
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(out)
		if err != nil {
			return nil, err
		}
		return map[string]any{"target": r.Target, "content": string(data)}, nil
	}

	addTool(srv, tool, decode, run)
}

// --- parse ---

type parseReq struct {
	Path string `json:"path"`
}

func (p *Pipeline) registerParseTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "morph_parse_document",
		Description: "Parse a document file into its block structure (headings, bullets, paragraphs).",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "File path to parse"},
		}, []string{"path"}),
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r parseReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	run := func(_ context.Context, req any) (any, error) {
		r := req.(*parseReq)
		return p.Parse(r.Path)
	}

	addTool(srv, tool, decode, run)
}

// --- formats ---

func (p *Pipeline) registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "morph_formats",
		Description: "List supported document source and target formats.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	decode := func(_ *mcp.CallToolRequest) (any, error) { return nil, nil }

	run := func(_ context.Context, _ any) (any, error) {
		return map[string]any{
			"sources": SupportedSources(),
			"targets": SupportedTargets(),
		}, nil
	}

	addTool(srv, tool, decode, run)
}
