// Package testutil provides test helpers for toolbox (e.g. MockTool).
package testutil

import (
	"context"
	"time"

	"github.com/skosovsky/toolbox"
)

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	NameVal   string
	DescVal   string
	ParamsVal map[string]any
	TagsVal   []string
	ExecuteFn func(ctx context.Context, args []byte) ([]byte, error)
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the tool description.
func (m *MockTool) Description() string {
	return m.DescVal
}

// Parameters returns the parameters schema (or an empty object schema).
func (m *MockTool) Parameters() map[string]any {
	if m.ParamsVal != nil {
		return m.ParamsVal
	}
	return map[string]any{"type": "object"}
}

// Execute runs ExecuteFn if set, otherwise returns an empty JSON object.
func (m *MockTool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, args)
	}
	return []byte(`{}`), nil
}

// Timeout implements toolbox.ToolMetadata.
func (m *MockTool) Timeout() time.Duration { return 0 }

// Tags implements toolbox.ToolMetadata.
func (m *MockTool) Tags() []string { return m.TagsVal }

// Version implements toolbox.ToolMetadata.
func (m *MockTool) Version() string { return "" }

// IsDangerous implements toolbox.ToolMetadata.
func (m *MockTool) IsDangerous() bool { return false }

var (
	_ toolbox.Tool         = (*MockTool)(nil)
	_ toolbox.ToolMetadata = (*MockTool)(nil)
)
