package mcp

import (
	"context"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServeStdio serves s over stdin/stdout until EOF. Tool calls reach the
// backend with token when it is set.
func ServeStdio(s *mcpserver.MCPServer, token string) error {
	return mcpserver.ServeStdio(s, mcpserver.WithStdioContextFunc(func(ctx context.Context) context.Context {
		if token == "" {
			return ctx
		}
		return WithUserContext(ctx, UserContext{UserID: "cli", Token: token})
	}))
}
