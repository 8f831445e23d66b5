// Package toolbox is the dispatch engine behind the toolbox service: a registry of
// small stateless utility operations that take JSON arguments and return JSON results.
//
// # Overview
//
// Each operation is a plain Go function with a typed argument struct. NewTool turns it
// into a Tool by deriving a JSON Schema from the struct; the same schema is published
// in the tool listing and used to validate incoming arguments.
//
// Pipeline: Go function + argument struct → NewTool (reflection + schema) → Tool →
// Registry → Execute (unmarshal, validate, call, marshal) → ToolResult.
//
// # Validation
//
// Arguments pass three layers before the function runs: the JSON Schema, `validate`
// struct tags (go-playground/validator), and Validatable.Validate when implemented.
// Any failure is a ClientError wrapping ErrValidation.
//
// # Errors
//
// Operations report bad input with Fail and one of the kind sentinels
// (ErrInvalidEncoding, ErrInvalidExpression, ...). Everything else is a SystemError
// whose message is never shown to callers.
//
// # Example
//
//	type Args struct { Text string `json:"text"` }
//	type Out  struct { Upper string `json:"upper"` }
//	tool, err := toolbox.NewTool("text/upper", "Uppercase text", func(_ context.Context, a Args) (Out, error) {
//	    return Out{Upper: strings.ToUpper(a.Text)}, nil
//	})
//	if err != nil { ... }
//	reg := toolbox.NewRegistry()
//	reg.Register(tool)
//	result := reg.Execute(ctx, toolbox.ToolCall{ID: "1", ToolName: "text/upper", Args: []byte(`{"text":"hi"}`)})
package toolbox
