// puzzle-mcp serves a bundled sliding-tile puzzle page over MCP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vthunder/companion/internal/opener"
	"github.com/vthunder/companion/internal/puzzle"
)

func main() {
	s := server.NewMCPServer(
		"puzzle-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
	)

	s.AddResource(
		mcp.NewResource(puzzle.ResourceURI, "puzzle.html",
			mcp.WithResourceDescription("Standalone puzzle game HTML"),
			mcp.WithMIMEType("text/html"),
		),
		func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      puzzle.ResourceURI,
					MIMEType: "text/html",
					Text:     puzzle.HTML(),
				},
			}, nil
		},
	)

	s.AddTool(openInBrowserTool(), handleOpenInBrowser)
	s.AddTool(exportTool(), handleExport)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func openInBrowserTool() mcp.Tool {
	return mcp.NewTool("open_in_browser",
		mcp.WithDescription("Copy the puzzle page to a temp folder and try to open it in the default browser. Returns JSON {temp_path}; the path is returned even if no browser could be launched."),
	)
}

func handleOpenInBrowser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := puzzle.OpenInBrowser(os.TempDir(), opener.System{})
	if path == "" {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write puzzle: %v", err)), nil
	}
	if err != nil {
		// stdout is the MCP transport
		log.Printf("[puzzle-mcp] browser launch failed: %v", err)
	}
	return jsonResult(map[string]string{"temp_path": path})
}

func exportTool() mcp.Tool {
	return mcp.NewTool("export_puzzle",
		mcp.WithDescription("Save the puzzle page to dest_dir/filename and return JSON {saved_to} with the absolute path."),
		mcp.WithString("dest_dir",
			mcp.Required(),
			mcp.Description("Destination folder, created if missing"),
		),
		mcp.WithString("filename",
			mcp.Description("File name (default puzzle.html)"),
		),
	)
}

func handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	dest, _ := args["dest_dir"].(string)
	filename, _ := args["filename"].(string)
	if dest == "" {
		return mcp.NewToolResultError("dest_dir is required"), nil
	}
	out, err := puzzle.Export(dest, filename)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to export puzzle: %v", err)), nil
	}
	return jsonResult(map[string]string{"saved_to": out})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
