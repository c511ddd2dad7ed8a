package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"larder"
	"larder/suggest"
)

// options mirrors the Ollama chat options payload.
type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
}

// Suggester proposes replacement meals through a local Ollama instance.
// It asks for JSON output and parses the chat content as a suggest.Payload.
type Suggester struct {
	endpoint   string
	model      string
	httpClient larder.HTTPClient
	options    options
}

type SuggesterOpts struct {
	BaseEndpoint string
	ModelID      string
	HTTPClient   larder.HTTPClient
}

func NewSuggester(opts SuggesterOpts) (*Suggester, error) {
	if opts.BaseEndpoint == "" {
		return nil, fmt.Errorf("invalid base endpoint")
	}
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("invalid HTTP client")
	}

	return &Suggester{
		model:      opts.ModelID,
		httpClient: opts.HTTPClient,
		endpoint:   opts.BaseEndpoint + "/api/chat",
		options: options{
			Temperature:   0.2,
			TopP:          0.9,
			RepeatPenalty: 1.05,
			NumCtx:        16384, // safe default; raise if your machine can handle it
		},
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  options       `json:"options,omitempty"`
}

type wireResponse struct {
	Message wireMessage `json:"message"`
	// other metadata omitted but available
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

	reqBody := wireRequest{
		Model: s.model,
		Messages: []wireMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: task},
		},
		Stream:  false,
		Format:  "json", // constrain the model to emit a single JSON object
		Options: s.options,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SUGGESTER: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		slog.Warn("SUGGESTER: Failed to decode chat response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	var payload suggest.Payload
	if err := json.Unmarshal([]byte(strings.TrimSpace(wr.Message.Content)), &payload); err != nil {
		slog.Warn("SUGGESTER: Model output not valid JSON", "error", err, "content", wr.Message.Content)
		return nil, fmt.Errorf("model output not valid JSON: %w", err)
	}

	return suggest.Accept(req, payload.Suggestions), nil
}
