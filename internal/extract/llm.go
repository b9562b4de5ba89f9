package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/errors"
	"github.com/avirtanen/agentlab/internal/logging"
)

// systemPrompt instructs the model to answer with one item per line so the
// response can be parsed without any model-specific output format.
const systemPrompt = `You are a helpful assistant that extracts action items from text.
An action item is a specific task, todo, or actionable item that needs to be completed.
List each actionable item on its own line, cleaned of prefixes and formatting.
Output only the action items, one per line, and nothing else.
If there are no action items, output nothing.`

// LLMExtractor extracts action items by prompting a local Ollama model.
type LLMExtractor struct {
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLLMExtractor creates an extractor against the configured Ollama endpoint.
func NewLLMExtractor(settings *conf.Settings) *LLMExtractor {
	return &LLMExtractor{
		baseURL: strings.TrimRight(settings.Ollama.BaseURL, "/"),
		model:   settings.Ollama.Model,
		timeout: settings.Ollama.Timeout,
		httpClient: &http.Client{
			Timeout: settings.Ollama.Timeout,
		},
		logger: logging.ForService("llm-extract"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Extract sends text to the model and parses the line-delimited response.
// It performs exactly one upstream round trip; a timeout or unreachable
// endpoint is terminal for the call.
func (x *LLMExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	reqBody := chatRequest{
		Model: x.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Extract action items from the following text:\n\n%s", text)},
		},
		Stream: false,
		// temperature 0 for deterministic output
		Options: chatOptions{Temperature: 0},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.New(err).
			Component("llm-extract").
			Category(errors.CategoryGeneric).
			Build()
	}

	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	url := x.baseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.New(err).
			Component("llm-extract").
			Category(errors.CategoryGeneric).
			Build()
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := x.httpClient.Do(req)
	if err != nil {
		if isTimeoutError(err) {
			x.logger.Warn("inference request timed out", "model", x.model, "timeout", x.timeout)
			return nil, errors.Newf("inference request timed out after %s", x.timeout).
				Component("llm-extract").
				Category(errors.CategoryTimeout).
				Context("model", x.model).
				Build()
		}
		x.logger.Error("inference endpoint unreachable", "url", url, "error", err)
		return nil, errors.Newf("inference endpoint unreachable: %v", err).
			Component("llm-extract").
			Category(errors.CategoryUnavailable).
			Context("url_base", x.baseURL).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("inference endpoint returned status %d", resp.StatusCode).
			Component("llm-extract").
			Category(errors.CategoryUpstream).
			Context("status_code", resp.StatusCode).
			Build()
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, errors.Newf("decoding inference response: %v", err).
			Component("llm-extract").
			Category(errors.CategoryUpstream).
			Build()
	}

	items := parseLines(chatResp.Message.Content)
	x.logger.Debug("extraction complete",
		"model", x.model,
		"items", len(items),
		"duration_ms", time.Since(start).Milliseconds())

	return items, nil
}

// parseLines splits the model output on newlines, trims each line and drops
// empties. The model's output is not validated further.
func parseLines(content string) []string {
	items := []string{}
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
