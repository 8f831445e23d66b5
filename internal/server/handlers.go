package server

import (
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/logging"
	"github.com/skosovsky/toolbox/internal/metrics"
)

// APIMessage is returned by GET /api/.
const APIMessage = "Toolbox API v2"

// IndexResponse is the body of GET /.
type IndexResponse struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Commit  string   `json:"commit"`
	Routes  []string `json:"routes"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, IndexResponse{
		Name:    s.info.Name,
		Version: s.info.Version,
		Commit:  s.info.Commit,
		Routes: []string{
			"GET /health",
			"GET /ready",
			"GET /metrics",
			"GET " + APIPrefix + "/",
			"GET " + ToolsPrefix,
			"POST " + ToolsPrefix + "/{category}/{action}",
			"POST " + APIPrefix + "/batch",
		},
	})
}

func (s *Server) handleAPIRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"message": APIMessage})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, HealthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.Ready() {
		respondJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
			Status:    "not_ready",
			Timestamp: time.Now().UTC(),
			Reason:    "server is starting or shutting down",
		})
		return
	}
	respondJSON(w, r, http.StatusOK, HealthResponse{Status: "ready", Timestamp: time.Now().UTC()})
}

// ToolInfo describes one tool in the catalog.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	Parameters  map[string]any `json:"parameters"`
	Tags        []string       `json:"tags,omitempty"`
	Version     string         `json:"version,omitempty"`
	Dangerous   bool           `json:"dangerous,omitempty"`
}

// ToolsResponse is the body of GET /api/tools.
type ToolsResponse struct {
	Tools []ToolInfo `json:"tools"`
	Count int        `json:"count"`
}

// describe builds the catalog entry for t.
func describe(t toolbox.Tool) ToolInfo {
	info := ToolInfo{
		Name:        t.Name(),
		Description: t.Description(),
		Method:      http.MethodPost,
		Path:        ToolsPrefix + "/" + t.Name(),
		Parameters:  t.Parameters(),
	}
	if tm, ok := t.(toolbox.ToolMetadata); ok {
		info.Tags = tm.Tags()
		info.Version = tm.Version()
		info.Dangerous = tm.IsDangerous()
	}
	if toolbox.HasTag(t, toolbox.TagQuery) {
		info.Method = http.MethodGet
	}
	return info
}

// Catalog describes every tool in registry, sorted by name.
func Catalog(registry *toolbox.Registry) []ToolInfo {
	tools := registry.GetAllTools()
	out := make([]ToolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, describe(t))
	}
	return out
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := Catalog(s.registry)
	respondJSON(w, r, http.StatusOK, ToolsResponse{Tools: tools, Count: len(tools)})
}

func toolName(r *http.Request) string {
	return chi.URLParam(r, "category") + "/" + chi.URLParam(r, "action")
}

// readBody reads the request body, answering 413 itself when the body is over the limit.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge,
				"request body too large", false, map[string]any{"limit": tooLarge.Limit})
			return nil, false
		}
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, "failed to read request body", false, nil)
		return nil, false
	}
	return body, true
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	s.execute(w, r, toolName(r), body)
}

// handleToolQuery serves GET for tools tagged query. Query parameters become arguments.
func (s *Server) handleToolQuery(w http.ResponseWriter, r *http.Request) {
	name := toolName(r)
	t, found := s.registry.GetTool(name)
	if found && !toolbox.HasTag(t, toolbox.TagQuery) {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
			"tool "+name+" requires POST", false, map[string]any{"tool": name})
		return
	}
	var params map[string]any
	if found {
		params = t.Parameters()
	}
	args, err := queryArgs(r.URL.Query(), params)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error(), false, nil)
		return
	}
	s.execute(w, r, name, args)
}

// queryArgs turns ?k=v pairs into a JSON object, typing each value by the property
// type declared in the tool's schema. A value that does not parse as its declared
// type stays a string so schema validation reports it. Array properties take every
// repeated value; other properties keep the first.
func queryArgs(q url.Values, schema map[string]any) ([]byte, error) {
	props, _ := schema["properties"].(map[string]any)
	args := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) == 0 {
			continue
		}
		prop, _ := props[k].(map[string]any)
		if schemaType(prop) == "array" {
			items, _ := prop["items"].(map[string]any)
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = typedValue(v, schemaType(items))
			}
			args[k] = list
			continue
		}
		args[k] = typedValue(vs[0], schemaType(prop))
	}
	return json.Marshal(args)
}

// schemaType returns the first non-null type of a schema node, or "" when it declares none.
func schemaType(node map[string]any) string {
	switch t := node["type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

func typedValue(v, typ string) any {
	switch typ {
	case "integer":
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case "number":
		if n, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n
		}
	case "boolean":
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return v
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, name string, args []byte) {
	res := s.registry.Execute(r.Context(), toolbox.ToolCall{
		ID:       logging.RequestIDFromContext(r.Context()),
		ToolName: name,
		Args:     args,
	})
	if res.Error != nil {
		writeToolError(w, r, name, res.Error)
		return
	}
	respondRaw(w, r, http.StatusOK, res.Result)
}

// BatchCall is one entry of a batch request.
type BatchCall struct {
	ID   string          `json:"id,omitempty"`
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args,omitempty"`
}

// BatchRequest is the body of POST /api/batch.
type BatchRequest struct {
	Calls []BatchCall `json:"calls"`
}

// BatchError is the per-call error in a batch response.
type BatchError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// BatchResult is one entry of a batch response, in request order.
type BatchResult struct {
	ID     string          `json:"id"`
	Tool   string          `json:"tool"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *BatchError     `json:"error,omitempty"`
}

// BatchResponse is the body of a successful POST /api/batch.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req BatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "invalid batch request: "+err.Error(), false, nil)
		return
	}
	if len(req.Calls) == 0 {
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, "batch has no calls", false, nil)
		return
	}
	if len(req.Calls) > s.cfg.MaxBatchCalls {
		writeError(w, r, http.StatusBadRequest, ErrCodeTooManyCalls, "batch has too many calls", false,
			map[string]any{"max": s.cfg.MaxBatchCalls, "got": len(req.Calls)})
		return
	}
	metrics.RecordBatch(len(req.Calls))

	calls := make([]toolbox.ToolCall, len(req.Calls))
	for i, c := range req.Calls {
		id := c.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		calls[i] = toolbox.ToolCall{ID: id, ToolName: c.Tool, Args: []byte(c.Args)}
	}

	results := s.registry.ExecuteBatch(r.Context(), calls)
	out := BatchResponse{Results: make([]BatchResult, len(results))}
	for i, res := range results {
		br := BatchResult{ID: res.CallID, Tool: res.ToolName}
		if res.Error != nil {
			e := classify(res.Error)
			br.Error = &BatchError{Status: e.status, Code: e.code, Message: e.message, Retryable: e.retryable}
		} else {
			br.Result = json.RawMessage(res.Result)
		}
		out.Results[i] = br
	}
	respondJSON(w, r, http.StatusOK, out)
}
