package handlers

import (
	"net/http"
	"strconv"
)

// MCPPageTool holds display-only fields for a tool on the MCP page.
type MCPPageTool struct {
	Name        string
	Description string
}

// MCPPageData shows how to connect an MCP client to endpoint and lists the
// tools it exposes.
func MCPPageData(endpoint string, catalogFn func() []MCPPageTool) PageData {
	return func(r *http.Request) map[string]interface{} {
		var tools []MCPPageTool
		if catalogFn != nil {
			tools = catalogFn()
		}

		toolStatus := "NO TOOLS"
		if len(tools) > 0 {
			toolStatus = strconv.Itoa(len(tools))
		}

		return map[string]interface{}{
			"Tools":       tools,
			"ToolCount":   len(tools),
			"ToolStatus":  toolStatus,
			"MCPEndpoint": endpoint,
		}
	}
}
