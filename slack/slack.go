package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"larder"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// Summarize renders a replan outcome as a short channel message.
func Summarize(event larder.UnplannedEvent, result *larder.ReplanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan update for %s", event.Date)
	if event.Reason != "" {
		fmt.Fprintf(&b, " (%s)", event.Reason)
	}
	fmt.Fprintf(&b, ": skipped %d meal(s)", len(result.SkippedMealIDs))

	if len(result.NewMeals) > 0 {
		names := make([]string, 0, len(result.NewMeals))
		for _, m := range result.NewMeals {
			names = append(names, fmt.Sprintf("%s (%s %s)", m.Name, m.Date, m.MealType))
		}
		fmt.Fprintf(&b, ", added %s", strings.Join(names, ", "))
	} else {
		b.WriteString(", no replacements added")
	}

	if len(result.WasteRisk) > 0 {
		names := make([]string, 0, len(result.WasteRisk))
		for _, w := range result.WasteRisk {
			names = append(names, w.Name)
		}
		fmt.Fprintf(&b, ". Use soon: %s", strings.Join(names, ", "))
	}

	return b.String()
}
