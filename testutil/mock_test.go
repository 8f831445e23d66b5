package testutil

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/toolbox"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMockTool(t *testing.T) {
	m := &MockTool{
		NameVal:   "test_tool",
		DescVal:   "For tests",
		ParamsVal: map[string]any{"type": "object"},
		TagsVal:   []string{toolbox.TagQuery},
		ExecuteFn: func(_ context.Context, _ []byte) ([]byte, error) {
			return []byte(`{"done":true}`), nil
		},
	}
	assert.Equal(t, "test_tool", m.Name())
	assert.Equal(t, "For tests", m.Description())
	assert.Equal(t, map[string]any{"type": "object"}, m.Parameters())
	assert.True(t, toolbox.HasTag(m, toolbox.TagQuery))
	out, err := m.Execute(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	var v struct {
		Done bool `json:"done"`
	}
	require.NoError(t, json.Unmarshal(out, &v))
	assert.True(t, v.Done)
}

func TestMockTool_Defaults(t *testing.T) {
	m := &MockTool{}
	assert.Equal(t, "mock", m.Name())
	out, err := m.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestNewTestRegistry(t *testing.T) {
	m := &MockTool{NameVal: "m", ExecuteFn: func(_ context.Context, _ []byte) ([]byte, error) {
		return []byte(`{}`), nil
	}}
	reg := NewTestRegistry(m)
	require.NotNil(t, reg)
	all := reg.GetAllTools()
	require.Len(t, all, 1)
	assert.Equal(t, "m", all[0].Name())
	res := reg.Execute(context.Background(), toolbox.ToolCall{ID: "1", ToolName: "m", Args: []byte(`{}`)})
	require.NoError(t, res.Error)
}

func TestCall(t *testing.T) {
	m := &MockTool{NameVal: "echo", ExecuteFn: func(_ context.Context, args []byte) ([]byte, error) {
		return args, nil
	}}
	out, err := Call(t, m, `{"a":1}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))
}
