package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"

	// DefaultModel is the default model used for conflict advice.
	DefaultModel = "gpt-4o"
)

// CopilotClient implements the Client interface using GitHub Copilot's API.
type CopilotClient struct {
	client     openai.Client
	model      string
	httpClient *http.Client
}

// tokenResponse represents the response from GitHub's token exchange endpoint.
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewCopilotClient creates a new Copilot client.
// It loads the GitHub token and exchanges it for a Copilot bearer token.
func NewCopilotClient(model string) (*CopilotClient, error) {
	if model == "" {
		model = DefaultModel
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}

	bearerToken, err := exchangeToken(httpClient, githubToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	client := openai.NewClient(
		option.WithBaseURL(copilotBaseURL),
		option.WithAPIKey(bearerToken),
		option.WithHeader("Editor-Version", "Shopboard/1.0"),
		option.WithHeader("Editor-Plugin-Version", "Shopboard/1.0"),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	)

	return &CopilotClient{
		client:     client,
		model:      model,
		httpClient: httpClient,
	}, nil
}

// exchangeToken exchanges a GitHub OAuth token for a Copilot bearer token.
func exchangeToken(httpClient *http.Client, githubToken string) (string, error) {
	req, err := http.NewRequest("GET", copilotTokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+githubToken)
	req.Header.Set("User-Agent", "Shopboard/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return tokenResp.Token, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *CopilotClient) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			out[i] = openai.SystemMessage(msg.Content)
		case "assistant":
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}
