package agent

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrUpstream marks a transient reasoner failure. The orchestrator retries
// these; anything else aborts the turn.
var ErrUpstream = errors.New("reasoner upstream failure")

// Reasoner produces the reply for one conversational turn. Implementations
// may issue tool calls through Dispatch before settling on a final text.
type Reasoner interface {
	Reply(ctx context.Context, deps Deps, userText string) (string, error)
}

const defaultMaxToolRounds = 8

// GeminiReasoner drives a Gemini model with the tool registry attached.
type GeminiReasoner struct {
	client        *genai.Client
	model         string
	maxToolRounds int
}

func NewGeminiReasoner(ctx context.Context, apiKey, model string) (*GeminiReasoner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiReasoner{
		client:        client,
		model:         model,
		maxToolRounds: defaultMaxToolRounds,
	}, nil
}

func declarations() []*genai.FunctionDeclaration {
	specs := Registry()
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		decl := &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
		}
		if len(spec.Params) > 0 {
			properties := make(map[string]*genai.Schema, len(spec.Params))
			var required []string
			for _, p := range spec.Params {
				properties[p.Name] = &genai.Schema{
					Type:        schemaType(p.Type),
					Description: p.Description,
				}
				if p.Required {
					required = append(required, p.Name)
				}
			}
			decl.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

func schemaType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// Reply runs the explicit tool loop: generate, and while the model keeps
// requesting function calls, dispatch them in order and feed the results
// back before generating again.
func (r *GeminiReasoner) Reply(ctx context.Context, deps Deps, userText string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(userText, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		Tools: []*genai.Tool{
			{FunctionDeclarations: declarations()},
		},
	}

	for round := 0; round < r.maxToolRounds; round++ {
		resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, cfg)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("%w: empty candidate", ErrUpstream)
		}

		content := resp.Candidates[0].Content

		var calls []*genai.FunctionCall
		for _, part := range content.Parts {
			if part.FunctionCall != nil {
				calls = append(calls, part.FunctionCall)
			}
		}

		if len(calls) == 0 {
			text := resp.Text()
			if text == "" {
				return "", fmt.Errorf("%w: candidate has neither text nor tool calls", ErrUpstream)
			}
			return text, nil
		}

		contents = append(contents, content)

		// Strictly sequential: a later call may read state an earlier call
		// just wrote.
		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := Dispatch(ctx, deps, call.Name, call.Args)
			if err != nil {
				return "", err
			}
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, result))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return "", fmt.Errorf("tool loop did not settle within %d rounds", r.maxToolRounds)
}
