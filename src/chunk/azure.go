package chunk

import (
	"context"
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"

	"github.com/mattstanbrell/amped/src/config"
)

const (
	envEndpoint = "AZURE_OPENAI_ENDPOINT"
	envAPIKey   = "AZURE_OPENAI_API_KEY"
)

// AzureCompleter is the production Completer backed by an Azure OpenAI
// deployment.
type AzureCompleter struct {
	client              *azopenai.Client
	deployment          string
	maxCompletionTokens int32
}

// NewAzureCompleter builds a client from the environment. Endpoint and
// key come from AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY.
func NewAzureCompleter(cfg config.ChunkConfig) (*AzureCompleter, error) {
	endpoint := os.Getenv(envEndpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%s is not set", envEndpoint)
	}
	apiKey := os.Getenv(envAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set", envAPIKey)
	}

	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("creating Azure OpenAI client: %w", err)
	}

	return &AzureCompleter{
		client:              client,
		deployment:          cfg.Deployment,
		maxCompletionTokens: int32(cfg.MaxCompletionTokens),
	}, nil
}

func (a *AzureCompleter) Complete(ctx context.Context, system, user string) (string, Usage, error) {
	resp, err := a.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName:      to.Ptr(a.deployment),
		MaxCompletionTokens: to.Ptr(a.maxCompletionTokens),
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestSystemMessage{
				Content: azopenai.NewChatRequestSystemMessageContent(system),
			},
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(user),
			},
		},
	}, nil)
	if err != nil {
		return "", Usage{}, fmt.Errorf("chat completion: %w", err)
	}

	var usage Usage
	if resp.Usage != nil {
		if resp.Usage.PromptTokens != nil {
			usage.Prompt = int(*resp.Usage.PromptTokens)
		}
		if resp.Usage.CompletionTokens != nil {
			usage.Completion = int(*resp.Usage.CompletionTokens)
		}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", usage, fmt.Errorf("empty completion from deployment %s", a.deployment)
	}
	return *resp.Choices[0].Message.Content, usage, nil
}
