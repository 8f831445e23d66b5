package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/skosovsky/toolbox"
)

// NewTestRegistry returns a Registry with long timeout and panic recovery enabled,
// suitable for tests.
func NewTestRegistry(tools ...toolbox.Tool) *toolbox.Registry {
	reg := toolbox.NewRegistry(
		toolbox.WithDefaultTimeout(30*time.Second),
		toolbox.WithRecoverPanics(true),
	)
	reg.Register(tools...)
	return reg
}

// Call executes tool through a fresh test registry and fails the test on registry-level errors
// (not found, shutdown). The tool's own error is returned to the caller.
func Call(t testing.TB, tool toolbox.Tool, args string) ([]byte, error) {
	t.Helper()
	reg := NewTestRegistry(tool)
	t.Cleanup(func() { _ = reg.Shutdown(context.Background()) })
	res := reg.Execute(context.Background(), toolbox.ToolCall{ID: "test", ToolName: tool.Name(), Args: []byte(args)})
	return res.Result, res.Error
}
