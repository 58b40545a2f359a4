// Package api exposes the MCP server over HTTP for deployments where
// stdio is not an option: a JSON-RPC POST endpoint, a streaming
// variant, a health probe, and prometheus metrics.
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zammad-tools/zammad-mcp/internal/mcp"
)

// Server wraps the MCP dispatch layer in an HTTP transport.
type Server struct {
	engine *gin.Engine
	mcp    *mcp.Server
}

// New builds the HTTP server around an MCP server instance.
func New(mcpServer *mcp.Server) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	s := &Server{engine: engine, mcp: mcpServer}

	engine.GET("/health", s.handleHealth)
	engine.GET("/mcp", s.handleInfo)
	engine.POST("/mcp", s.handleMessage)
	engine.POST("/mcp/stream", s.handleStream)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves plain HTTP on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// RunTLS serves HTTPS on addr with the given certificate pair.
func (s *Server) RunTLS(addr, certFile, keyFile string) error {
	return s.engine.RunTLS(addr, certFile, keyFile)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    mcp.ServerName,
		"version": mcp.ServerVersion,
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	tools := make([]map[string]string, len(mcp.ToolRegistry))
	for i, tool := range mcp.ToolRegistry {
		tools[i] = map[string]string{
			"name":        tool.Name,
			"description": tool.Description,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"name":             mcp.ServerName,
		"version":          mcp.ServerVersion,
		"protocol_version": mcp.ProtocolVersion,
		"tools_count":      len(mcp.ToolRegistry),
		"tools":            tools,
		"endpoint":         "POST /mcp",
		"stream_endpoint":  "POST /mcp/stream",
	})
}

func (s *Server) handleMessage(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	response, err := s.mcp.HandleMessage(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// No response for notifications (e.g., "initialized")
	if response == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.Data(http.StatusOK, "application/json", response)
}

// handleStream answers a single JSON-RPC message over server-sent
// events. The client gets a session id up front, then the result (or
// an error), then a terminal done event. Long tool calls keep the
// connection open instead of risking an intermediary timeout on a
// plain POST.
func (s *Server) handleStream(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	session := uuid.NewString()
	c.SSEvent("connected", gin.H{"session": session})
	c.Writer.Flush()

	response, err := s.mcp.HandleMessage(c.Request.Context(), body)
	switch {
	case err != nil:
		c.SSEvent("error", gin.H{"session": session, "error": err.Error()})
	case response == nil:
		// Notification: nothing to report beyond completion.
	default:
		c.SSEvent("result", string(response))
	}
	c.Writer.Flush()

	c.SSEvent("done", gin.H{"session": session})
	c.Writer.Flush()
}
