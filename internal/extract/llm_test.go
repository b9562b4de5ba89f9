package extract

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/errors"
)

func newTestLLMExtractor(t *testing.T) *LLMExtractor {
	t.Helper()

	settings := &conf.Settings{}
	settings.Ollama.BaseURL = "http://localhost:11434"
	settings.Ollama.Model = "qwen3:1.7b"
	settings.Ollama.Timeout = 5 * time.Second

	x := NewLLMExtractor(settings)

	httpmock.ActivateNonDefault(x.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	return x
}

const chatEndpoint = "http://localhost:11434/api/chat"

func TestLLMExtractParsesLines(t *testing.T) {
	x := newTestLLMExtractor(t)

	httpmock.RegisterResponder(http.MethodPost, chatEndpoint,
		httpmock.NewStringResponder(http.StatusOK, `{
			"model": "qwen3:1.7b",
			"message": {
				"role": "assistant",
				"content": "Review the pull requests\n\n  Fix the authentication bug  \nSchedule the retro\n"
			},
			"done": true
		}`))

	items, err := x.Extract(context.Background(), "meeting notes")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Review the pull requests",
		"Fix the authentication bug",
		"Schedule the retro",
	}, items)
}

func TestLLMExtractEmptyResponse(t *testing.T) {
	x := newTestLLMExtractor(t)

	httpmock.RegisterResponder(http.MethodPost, chatEndpoint,
		httpmock.NewStringResponder(http.StatusOK,
			`{"message": {"role": "assistant", "content": "\n\n"}}`))

	items, err := x.Extract(context.Background(), "nothing actionable here")

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLLMExtractBlankInputSkipsUpstream(t *testing.T) {
	x := newTestLLMExtractor(t)

	items, err := x.Extract(context.Background(), "   \n\t")

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestLLMExtractUnreachable(t *testing.T) {
	x := newTestLLMExtractor(t)

	httpmock.RegisterResponder(http.MethodPost, chatEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("dial tcp 127.0.0.1:11434: connect: connection refused")))

	items, err := x.Extract(context.Background(), "some notes")

	require.Error(t, err)
	assert.Nil(t, items)
	assert.True(t, errors.IsUnavailable(err))
}

func TestLLMExtractTimeout(t *testing.T) {
	x := newTestLLMExtractor(t)

	httpmock.RegisterResponder(http.MethodPost, chatEndpoint,
		httpmock.NewErrorResponder(context.DeadlineExceeded))

	items, err := x.Extract(context.Background(), "some notes")

	require.Error(t, err)
	assert.Nil(t, items)
	assert.True(t, errors.IsTimeout(err))
}

func TestLLMExtractUpstreamStatus(t *testing.T) {
	x := newTestLLMExtractor(t)

	httpmock.RegisterResponder(http.MethodPost, chatEndpoint,
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error": "model not loaded"}`))

	items, err := x.Extract(context.Background(), "some notes")

	require.Error(t, err)
	assert.Nil(t, items)
	assert.Equal(t, errors.CategoryUpstream, errors.CategoryOf(err))
}

func TestLLMExtractNoRetry(t *testing.T) {
	x := newTestLLMExtractor(t)

	httpmock.RegisterResponder(http.MethodPost, chatEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("connection reset by peer")))

	_, err := x.Extract(context.Background(), "some notes")

	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
