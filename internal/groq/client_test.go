package groq

import (
	"context"
	"net/http"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChatAPI struct {
	mock.Mock
}

func (m *mockChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	client, err := NewClient(Config{APIKey: "gsk_test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.model)
}

func TestSummarizeTranscript_ParsesStructuredJSON(t *testing.T) {
	api := &mockChatAPI{}
	client := NewClientWithAPI(api, "test-model")

	api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "test-model" &&
			strings.HasSuffix(req.Messages[0].Content, "the transcript body") &&
			req.ResponseFormat.Type == openai.ChatCompletionResponseFormatTypeJSONObject
	})).Return(completionWith(`{
		"overview": "a video about channels",
		"deep_concepts": [{"name": "select", "explanation": "waits on channels", "start_time": 42}],
		"actionable_takeaways": ["use channels"]
	}`), nil).Once()

	summary, err := client.SummarizeTranscript(context.Background(), "the transcript body")
	require.NoError(t, err)
	assert.Equal(t, "a video about channels", summary.Overview)
	require.Len(t, summary.DeepConcepts, 1)
	assert.Equal(t, "select", summary.DeepConcepts[0].Name)
	assert.InDelta(t, 42.0, summary.DeepConcepts[0].StartTime, 1e-9)
	assert.Equal(t, []string{"use channels"}, summary.ActionableTakeaways)
	api.AssertExpectations(t)
}

func TestSummarizeTranscript_RetriesRateLimit(t *testing.T) {
	api := &mockChatAPI{}
	client := NewClientWithAPI(api, "")

	rateLimited := &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}
	api.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, rateLimited).Once()
	api.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completionWith(`{"overview":"recovered"}`), nil).Once()

	summary, err := client.SummarizeTranscript(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "recovered", summary.Overview)
	api.AssertNumberOfCalls(t, "CreateChatCompletion", 2)
}

func TestSummarizeTranscript_ClientErrorIsPermanent(t *testing.T) {
	api := &mockChatAPI{}
	client := NewClientWithAPI(api, "")

	badRequest := &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "bad request"}
	api.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, badRequest).Once()

	_, err := client.SummarizeTranscript(context.Background(), "text")
	require.Error(t, err)
	api.AssertNumberOfCalls(t, "CreateChatCompletion", 1)
}

func TestSummarizeTranscript_MalformedCompletion(t *testing.T) {
	api := &mockChatAPI{}
	client := NewClientWithAPI(api, "")

	api.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completionWith("Sure! Here is the summary you asked for."), nil).Once()

	_, err := client.SummarizeTranscript(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}
