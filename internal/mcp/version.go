package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/config"
)

// versionInfo holds version fields for one component.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// VersionToolHandler returns a handler that combines portal and backend version info.
func VersionToolHandler(backend *client.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := map[string]versionInfo{}

		portal := config.Info()
		result["stockrec_portal"] = versionInfo{
			Version: portal.Version,
			Build:   portal.Build,
			Commit:  portal.Commit,
		}

		// The backend entry is omitted when it cannot be reached.
		if v, err := backend.Version(ctx); err == nil {
			result["stockrec_backend"] = versionInfo{
				Version: v["version"],
				Build:   v["build"],
				Commit:  v["git_commit"],
			}
		}

		out, err := json.Marshal(result)
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return textResult(string(out)), nil
	}
}
