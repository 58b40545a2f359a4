package mcp

import (
	"context"
	"strings"
	"testing"
)

func TestRunStdio(t *testing.T) {
	server := NewServer(nil)

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`,
		`{"jsonrpc":"2.0","method":"initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n") + "\n"

	var out strings.Builder
	if err := server.RunStdio(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("RunStdio failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 responses (notification and blank line skipped), got %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], ProtocolVersion) {
		t.Errorf("Expected initialize response first, got %s", lines[0])
	}
}

func TestRunStdioCanceledContext(t *testing.T) {
	server := NewServer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := server.RunStdio(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &strings.Builder{})
	if err == nil {
		t.Fatal("Expected context error")
	}
}
