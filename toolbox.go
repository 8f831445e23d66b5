package toolbox

import (
	"context"
	"encoding/json"
	"slices"
	"time"
)

// Tool is the contract for a single stateless utility operation.
// Implementations take JSON arguments and return a JSON result.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns a valid JSON Schema as map describing the accepted arguments.
	Parameters() map[string]any
	// Execute validates argsJSON, runs the operation and returns the marshaled result.
	Execute(ctx context.Context, argsJSON []byte) ([]byte, error)
}

// ToolMetadata is implemented by tools created with NewTool and provides optional per-tool settings.
// Registry uses Timeout() to override the default execution timeout when set.
type ToolMetadata interface {
	Timeout() time.Duration
	Tags() []string
	Version() string
	IsDangerous() bool
}

// Well-known tags understood by the HTTP layer.
const (
	// TagQuery marks a tool that takes no required arguments and may be invoked with GET.
	TagQuery = "query"
	// TagExternal marks a tool that calls out to a third-party provider.
	TagExternal = "external"
)

// ToolCall is a single execution request.
type ToolCall struct {
	ID       string
	ToolName string
	Args     json.RawMessage // JSON payload of arguments
}

// ToolResult is the outcome of one ToolCall. Exactly one of Result and Error is set.
type ToolResult struct {
	CallID   string
	ToolName string
	Result   json.RawMessage
	Error    error
}

// HasTag reports whether t carries tag in its metadata.
func HasTag(t Tool, tag string) bool {
	tm, ok := t.(ToolMetadata)
	if !ok {
		return false
	}
	return slices.Contains(tm.Tags(), tag)
}
