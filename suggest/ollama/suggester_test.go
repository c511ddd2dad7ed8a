package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"larder"
)

// mockHTTPClient implements the HTTPClient interface for testing. It records
// the last request so tests can assert on the wire payload.
type mockHTTPClient struct {
	response *http.Response
	err      error
	lastReq  *http.Request
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	return m.response, m.err
}

// createMockResponse creates a mock HTTP response
func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestNewSuggester(t *testing.T) {
	tests := []struct {
		name    string
		opts    SuggesterOpts
		want    *Suggester
		wantErr bool
	}{
		{
			name: "valid suggester creation",
			opts: SuggesterOpts{
				BaseEndpoint: "http://localhost:11434",
				ModelID:      "llama3.2",
				HTTPClient:   &mockHTTPClient{},
			},
			want: &Suggester{
				model:    "llama3.2",
				endpoint: "http://localhost:11434/api/chat",
				options: options{
					Temperature:   0.2,
					TopP:          0.9,
					RepeatPenalty: 1.05,
					NumCtx:        16384,
				},
			},
			wantErr: false,
		},
		{
			name: "missing endpoint",
			opts: SuggesterOpts{
				ModelID:    "llama3.2",
				HTTPClient: &mockHTTPClient{},
			},
			want:    nil,
			wantErr: true,
		},
		{
			name: "missing HTTP client",
			opts: SuggesterOpts{
				BaseEndpoint: "http://localhost:11434",
				ModelID:      "llama3.2",
			},
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSuggester(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSuggester() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got.model != tt.want.model {
				t.Errorf("NewSuggester() model = %v, want %v", got.model, tt.want.model)
			}
			if got.endpoint != tt.want.endpoint {
				t.Errorf("NewSuggester() endpoint = %v, want %v", got.endpoint, tt.want.endpoint)
			}
			if got.options != tt.want.options {
				t.Errorf("NewSuggester() options = %v, want %v", got.options, tt.want.options)
			}
		})
	}
}

func TestSuggester_Suggest(t *testing.T) {
	req := larder.SuggestionRequest{
		Event: larder.UnplannedEvent{
			Date:      "2025-03-14",
			MealTypes: []larder.MealType{larder.MealTypeDinner},
		},
		MaxResults: 3,
	}

	tests := []struct {
		name         string
		mockResponse *http.Response
		mockError    error
		expected     []larder.MealSuggestion
		wantErr      bool
		errContains  string
	}{
		{
			name: "successful response with proposals",
			mockResponse: createMockResponse(200, `{
				"message": {
					"role": "assistant",
					"content": "{\"suggestions\": [{\"name\": \"Fried rice\", \"date\": \"2025-03-14\", \"meal_type\": \"dinner\", \"ingredients\": [\"2 cups rice\", \"2 eggs\"]}]}"
				}
			}`),
			expected: []larder.MealSuggestion{
				{
					Name:        "Fried rice",
					Date:        "2025-03-14",
					MealType:    larder.MealTypeDinner,
					Ingredients: []string{"2 cups rice", "2 eggs"},
				},
			},
		},
		{
			name: "invalid proposals filtered out",
			mockResponse: createMockResponse(200, `{
				"message": {
					"role": "assistant",
					"content": "{\"suggestions\": [{\"name\": \"Soup\", \"date\": \"someday\", \"meal_type\": \"dinner\"}, {\"name\": \"Omelette\", \"date\": \"2025-03-15\", \"meal_type\": \"breakfast\"}]}"
				}
			}`),
			expected: []larder.MealSuggestion{
				{Name: "Omelette", Date: "2025-03-15", MealType: larder.MealTypeBreakfast},
			},
		},
		{
			name:         "HTTP error",
			mockResponse: createMockResponse(500, `{"error": "Internal server error"}`),
			wantErr:      true,
			errContains:  "SUGGESTER:",
		},
		{
			name:      "network error",
			mockError: io.EOF,
			wantErr:   true,
		},
		{
			name: "content is not JSON",
			mockResponse: createMockResponse(200, `{
				"message": {
					"role": "assistant",
					"content": "I would suggest a nice stir fry."
				}
			}`),
			wantErr:     true,
			errContains: "model output not valid JSON",
		},
		{
			name:         "response body is not JSON",
			mockResponse: createMockResponse(200, `not json at all`),
			wantErr:      true,
			errContains:  "failed to decode chat response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSuggester(SuggesterOpts{
				BaseEndpoint: "http://localhost:11434",
				ModelID:      "llama3.2",
				HTTPClient:   &mockHTTPClient{response: tt.mockResponse, err: tt.mockError},
			})
			if err != nil {
				t.Fatalf("NewSuggester() unexpected error = %v", err)
			}

			got, err := s.Suggest(context.Background(), req)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Suggest() expected error but got none")
					return
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Suggest() error = %v, expected to contain %v", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("Suggest() unexpected error = %v", err)
				return
			}

			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(tt.expected)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("Suggest() = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestSuggester_Suggest_WirePayload(t *testing.T) {
	mock := &mockHTTPClient{
		response: createMockResponse(200, `{
			"message": {"role": "assistant", "content": "{\"suggestions\": []}"}
		}`),
	}
	s, err := NewSuggester(SuggesterOpts{
		BaseEndpoint: "http://localhost:11434",
		ModelID:      "llama3.2",
		HTTPClient:   mock,
	})
	if err != nil {
		t.Fatalf("NewSuggester() unexpected error = %v", err)
	}

	_, err = s.Suggest(context.Background(), larder.SuggestionRequest{
		Event: larder.UnplannedEvent{Date: "2025-03-14"},
	})
	if err != nil {
		t.Fatalf("Suggest() unexpected error = %v", err)
	}

	if mock.lastReq == nil {
		t.Fatal("no request captured")
	}
	if mock.lastReq.URL.String() != "http://localhost:11434/api/chat" {
		t.Errorf("request URL = %v, want the chat endpoint", mock.lastReq.URL)
	}
	if ct := mock.lastReq.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %v, want application/json", ct)
	}

	body, err := io.ReadAll(mock.lastReq.Body)
	if err != nil {
		t.Fatalf("reading request body: %v", err)
	}

	var wire wireRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if wire.Model != "llama3.2" {
		t.Errorf("model = %v, want llama3.2", wire.Model)
	}
	if wire.Stream {
		t.Error("stream = true, want false")
	}
	if wire.Format != "json" {
		t.Errorf("format = %v, want json", wire.Format)
	}
	if len(wire.Messages) != 2 || wire.Messages[0].Role != "system" || wire.Messages[1].Role != "user" {
		t.Errorf("messages = %v, want system then user", wire.Messages)
	}
	if !strings.Contains(wire.Messages[1].Content, "2025-03-14") {
		t.Error("user message does not carry the event date")
	}
}
