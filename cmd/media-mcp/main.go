// media-mcp exposes a local folder of mp3/mp4 files as MCP tools.
//
// The folder comes from MEDIA_DIR (default ./media). Tools only ever open
// files that list_media would return.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vthunder/companion/internal/media"
	"github.com/vthunder/companion/internal/opener"
)

var library *media.Library

func main() {
	_ = godotenv.Load()

	library = media.NewLibrary(os.Getenv("MEDIA_DIR"), opener.System{})

	s := server.NewMCPServer(
		"media-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(listMediaTool(), handleListMedia)
	s.AddTool(openMediaTool(), handleOpenMedia)
	s.AddTool(openIndexTool(), handleOpenIndex)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func listMediaTool() mcp.Tool {
	return mcp.NewTool("list_media",
		mcp.WithDescription("List the .mp3 and .mp4 files in the media folder, each sorted by name. Returns JSON {status, directory, mp3, mp4}."),
	)
}

func handleListMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(library.List())
}

func openMediaTool() mcp.Tool {
	return mcp.NewTool("open_media",
		mcp.WithDescription("Open one media file with the system default player. name must be copied exactly from list_media. Returns JSON {status, opened, path} or {status:\"fail\", reason}."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("File name as returned by list_media, including extension"),
		),
	)
}

func handleOpenMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	return jsonResult(library.Open(name))
}

func openIndexTool() mcp.Tool {
	return mcp.NewTool("open_index",
		mcp.WithDescription("Open the N-th file (1-based, sorted by name) of the given kind. Returns JSON {status, opened, path} or {status:\"fail\", reason}."),
		mcp.WithString("kind",
			mcp.Description("'mp3' or 'mp4' (default mp3)"),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("1-based position in the sorted list"),
		),
	)
}

func handleOpenIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	kind, _ := args["kind"].(string)
	if kind == "" {
		kind = "mp3"
	}
	index, ok := args["index"].(float64)
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}
	return jsonResult(library.OpenIndex(kind, int(index)))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
