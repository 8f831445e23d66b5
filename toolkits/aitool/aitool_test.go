package aitool

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/testutil"
)

type recorded struct {
	mu     sync.Mutex
	path   string
	auth   string
	bodies []map[string]any
}

func (r *recorded) last() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bodies[len(r.bodies)-1]
}

func fakeProvider(t *testing.T, status int) (*Provider, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		rec.mu.Lock()
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.bodies = append(rec.bodies, body)
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
			return
		}
		switch r.URL.Path {
		case "/chat/completions":
			_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",`+
				`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"rewritten"}}]}`)
		case "/images/generations":
			_, _ = io.WriteString(w, `{"created":1,"data":[{"url":"https://images.test/1.png"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	p := NewProvider(Config{
		APIKey:     "sk-test",
		BaseURL:    srv.URL + "/",
		TextModel:  "gpt-4o-mini",
		ImageModel: "dall-e-3",
	})
	return p, rec
}

func TestSystemPrompt(t *testing.T) {
	assert.Contains(t, SystemPrompt(OpSummarize), "summarization assistant")
	assert.Contains(t, SystemPrompt(OpParaphrase), "paraphrasing assistant")
	assert.Contains(t, SystemPrompt(OpEnhance), "text enhancement assistant")
	assert.Equal(t, DefaultPrompt, SystemPrompt("translate"))
}

func TestProvider_Text(t *testing.T) {
	p, rec := fakeProvider(t, http.StatusOK)
	require.True(t, p.Enabled())

	out, err := p.Text(t.Context(), "some text", OpSummarize)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)
	assert.Equal(t, "/chat/completions", rec.path)
	assert.Equal(t, "Bearer sk-test", rec.auth)

	body := rec.last()
	assert.Equal(t, "gpt-4o-mini", body["model"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": SystemPrompt(OpSummarize)}, msgs[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "some text"}, msgs[1])
}

func TestProvider_Image(t *testing.T) {
	p, rec := fakeProvider(t, http.StatusOK)
	url, err := p.Image(t.Context(), "a red fox", "1024x1024")
	require.NoError(t, err)
	assert.Equal(t, "https://images.test/1.png", url)
	assert.Equal(t, "/images/generations", rec.path)

	body := rec.last()
	assert.Equal(t, "dall-e-3", body["model"])
	assert.Equal(t, "a red fox", body["prompt"])
	assert.Equal(t, "1024x1024", body["size"])
	assert.InDelta(t, 1, body["n"], 0)
}

func TestProvider_UpstreamFailureIsSystemError(t *testing.T) {
	p, _ := fakeProvider(t, http.StatusBadRequest)
	_, err := p.Text(t.Context(), "x", OpEnhance)
	require.Error(t, err)
	assert.True(t, toolbox.IsSystemError(err))
	assert.NotContains(t, err.Error(), "boom")
}

func TestProvider_NotConfigured(t *testing.T) {
	p := NewProvider(Config{})
	assert.False(t, p.Enabled())

	_, err := p.Text(t.Context(), "x", OpEnhance)
	require.ErrorIs(t, err, toolbox.ErrNotConfigured)
	assert.True(t, toolbox.IsSystemError(err))

	var nilProvider *Provider
	_, err = nilProvider.Image(t.Context(), "x", "1024x1024")
	require.ErrorIs(t, err, toolbox.ErrNotConfigured)
}

func TestTools(t *testing.T) {
	p, _ := fakeProvider(t, http.StatusOK)
	byName := map[string]toolbox.Tool{}
	for _, tl := range Tools(p) {
		byName[tl.Name()] = tl
	}
	assert.True(t, toolbox.HasTag(byName["ai/text"], toolbox.TagExternal))

	out, err := testutil.Call(t, byName["ai/text"], `{"text":"hello","operation":"paraphrase"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"rewritten"}`, string(out))

	out, err = testutil.Call(t, byName["ai/image"], `{"prompt":"cat"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"image_url":"https://images.test/1.png"}`, string(out))

	_, err = testutil.Call(t, byName["ai/image"], `{"prompt":"cat","size":"10x10"}`)
	require.ErrorIs(t, err, toolbox.ErrValidation)

	unconfigured := Tools(nil)
	_, err = testutil.Call(t, unconfigured[0], `{"text":"a","operation":"x"}`)
	require.ErrorIs(t, err, toolbox.ErrNotConfigured)
	_, err = testutil.Call(t, unconfigured[1], `{"prompt":"a"}`)
	require.ErrorIs(t, err, toolbox.ErrNotConfigured)
}
