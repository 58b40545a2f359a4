package mcp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
)

// maxMessageSize bounds a single JSON-RPC line on stdio. Attachment
// payloads travel base64-encoded inside responses, not requests, so
// requests beyond this are garbage.
const maxMessageSize = 10 * 1024 * 1024

// RunStdio serves the MCP protocol over newline-delimited JSON-RPC,
// one message per line. It returns when the input stream ends or the
// context is canceled. Diagnostics go to the standard logger, never to
// the output stream: stdout carries protocol traffic only.
func (s *Server) RunStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp, err := s.HandleMessage(ctx, []byte(line))
		if err != nil {
			log.Printf("mcp: handle message: %v", err)
			continue
		}
		if resp == nil {
			// Notification, nothing to write back.
			continue
		}

		if _, err := fmt.Fprintf(w, "%s\n", resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}
