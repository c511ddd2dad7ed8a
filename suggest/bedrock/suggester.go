package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"larder"
	"larder/suggest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const (
	// defaultModelID is the default model ID for Bedrock Claude.
	// It's an inference profile ID or ARN, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	// Controls the maximum number of tokens the model can generate in one response.
	// 1k covers a handful of proposals; raise it when asking for more.
	defaultMaxTokens = 1024

	// Controls the randomness of the model's output. Low temperature keeps outputs more deterministic and consistent, which is better for tool use, JSON, and structured outputs.
	defaultTemperature = 0.2

	// Controls the diversity of the model's output. Low top_p keeps outputs more focused and less random, which is better for tool use, JSON, and structured outputs.
	defaultTopP = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type Options struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Suggester proposes replacement meals through the Bedrock Converse API.
// The model is forced to answer through the propose_meals tool so proposals
// arrive as structured input rather than free text.
type Suggester struct {
	brc  bedrockRuntimeClient
	opts Options
}

func NewSuggester(brc bedrockRuntimeClient, opts Options) *Suggester {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Suggester{
		brc:  brc,
		opts: opts,
	}
}

func (s *Suggester) Suggest(ctx context.Context, req larder.SuggestionRequest) ([]larder.MealSuggestion, error) {
	slog.Info("SUGGESTER: Invoked",
		"event_date", req.Event.Date,
		"skipped_meals", len(req.SkippedMeals),
		"waste_risk", len(req.WasteRisk),
	)

	task, err := suggest.Task(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build user message: %w", err)
	}

	spec, err := buildToolSpec(proposeMealsToolName, proposeMealsToolDescription, proposalSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to build tool spec: %w", err)
	}

	// Invoke the Bedrock Converse API with the tool choice pinned to
	// propose_meals so the model cannot answer in prose.
	in := &bedrockruntime.ConverseInput{
		ModelId: &s.opts.ModelID,
		System:  []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: systemPrompt}},
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: task}},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(s.opts.MaxTokens),
			Temperature: aws.Float32(s.opts.Temperature),
			TopP:        aws.Float32(s.opts.TopP),
		},
		ToolConfig: &types.ToolConfiguration{
			Tools: []types.Tool{&types.ToolMemberToolSpec{Value: spec}},
			ToolChoice: &types.ToolChoiceMemberTool{
				Value: types.SpecificToolChoice{Name: aws.String(proposeMealsToolName)},
			},
		},
	}
	out, err := s.brc.Converse(ctx, in)
	if err != nil {
		inPayload, _ := json.Marshal(in)
		slog.Error("SUGGESTER: Bedrock Claude invoke failed", "error", err, "input", string(inPayload))
		return nil, err
	}

	slog.Info("SUGGESTER: Bedrock Claude invoke succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", aws.ToInt64(out.Metrics.LatencyMs),
		"input_tokens", aws.ToInt32(out.Usage.InputTokens),
		"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
	)

	switch out.StopReason {
	case "tool_use":
		proposals, err := suggestionsFromOutput(out)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proposals: %w", err)
		}
		return suggest.Accept(req, proposals), nil

	case "end_turn", "stop_sequence":
		// The model answered in text despite the forced tool choice. Accept
		// the answer when the text is the JSON payload the tool expects.
		text, err := textFromOutput(out)
		if err != nil {
			return nil, fmt.Errorf("failed to extract final text: %w", err)
		}
		var payload suggest.Payload
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return nil, fmt.Errorf("final output not valid JSON: %w", err)
		}
		return suggest.Accept(req, payload.Suggestions), nil

	case "max_tokens":
		slog.Warn("SUGGESTER: Model hit MaxTokens limit; consider increasing MaxTokens or asking for fewer proposals")
		return nil, fmt.Errorf("model hit MaxTokens limit; consider increasing MaxTokens or asking for fewer proposals")

	case "safety", "content_filtered":
		slog.Warn("SUGGESTER: Model response blocked by Bedrock safety filters")
		return nil, fmt.Errorf("model response blocked by Bedrock safety filters")

	default:
		// Fallback if the model didn't specify a stop reason
		proposals, err := suggestionsFromOutput(out)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proposals: %w", err)
		}
		if len(proposals) == 0 {
			return nil, fmt.Errorf("unexpected stop reason %q with no proposals", out.StopReason)
		}
		return suggest.Accept(req, proposals), nil
	}
}

// suggestionsFromOutput extracts the propose_meals input emitted by the
// assistant. Unexpected tool names are skipped with a warning.
func suggestionsFromOutput(out *bedrockruntime.ConverseOutput) ([]larder.MealSuggestion, error) {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil || msg.Value.Content == nil {
		return nil, nil
	}

	for _, cb := range msg.Value.Content {
		tu, ok := cb.(*types.ContentBlockMemberToolUse)
		if !ok || tu == nil {
			continue
		}
		if name := aws.ToString(tu.Value.Name); name != proposeMealsToolName {
			slog.Warn("SUGGESTER: Ignoring unexpected tool use", "name", name)
			continue
		}

		var input map[string]any
		if err := tu.Value.Input.UnmarshalSmithyDocument(&input); err != nil {
			return nil, fmt.Errorf("failed to decode tool input: %w", err)
		}
		raw, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode tool input: %w", err)
		}
		var payload suggest.Payload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse tool input: %w", err)
		}
		return payload.Suggestions, nil
	}

	return nil, nil
}

// textFromOutput returns assistant text optimized for structured use:
// 1) If any text block looks like a single JSON object, return the last such block.
// 2) Else, if there's only one text block, return it.
// 3) Else, join all text blocks with '\n'.
func textFromOutput(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil || out.Output == nil {
		return "", nil
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil || len(msg.Value.Content) == 0 {
		return "", nil
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	if len(texts) == 0 {
		return "", nil
	}

	// Prefer a single JSON object if present
	for i := len(texts) - 1; i >= 0; i-- {
		s := strings.TrimSpace(texts[i])
		if len(s) > 1 && s[0] == '{' && s[len(s)-1] == '}' {
			return s, nil
		}
	}

	// Single block fast path
	if len(texts) == 1 {
		return texts[0], nil
	}

	// Join with one allocation
	total := len(texts) - 1 // for newlines
	for _, s := range texts {
		total += len(s)
	}

	var b strings.Builder
	b.Grow(total)

	for i, s := range texts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
	}

	return b.String(), nil
}
