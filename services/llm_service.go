package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sakamer71/healthcheck/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// llmCallTimeout bounds every outbound LLM call so a hung provider cannot
// block a request indefinitely.
const llmCallTimeout = 60 * time.Second

const azureAPIVersion = "2024-09-01-preview"

// LLMGateway is the provider-agnostic interface to the meal-extraction
// oracle: one prompt in, raw text out.
type LLMGateway interface {
	SendPrompt(ctx context.Context, prompt string) (string, error)
}

// NewLLMGateway builds the gateway for the configured default model. A
// provider can be named explicitly; otherwise a model whose name contains
// "gpt" goes to Azure and everything else to Bedrock, matching the model
// naming convention of the config file.
func NewLLMGateway(ctx context.Context, settings *config.Settings) (LLMGateway, error) {
	mc, err := settings.DefaultModel()
	if err != nil {
		return nil, err
	}

	provider := mc.Provider
	if provider == "" {
		if strings.Contains(strings.ToLower(settings.Models.Default), "gpt") {
			provider = "azure"
		} else {
			provider = "bedrock"
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(mc.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	switch provider {
	case "bedrock":
		return NewBedrockGateway(awsCfg, mc), nil
	case "azure":
		return NewAzureOpenAIGateway(ctx, ssm.NewFromConfig(awsCfg), mc)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// BedrockGateway sends prompts through the Bedrock Converse API.
type BedrockGateway struct {
	client  *bedrockruntime.Client
	modelID string
}

func NewBedrockGateway(awsCfg aws.Config, mc config.ModelConfig) *BedrockGateway {
	return &BedrockGateway{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: mc.ModelID,
	}
}

func (g *BedrockGateway) SendPrompt(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, llmCallTimeout)
	defer cancel()

	out, err := g.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		Messages: []brtypes.Message{{
			Role:    brtypes.ConversationRoleUser,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: prompt}},
		}},
	})
	if err != nil {
		return "", &UpstreamError{Op: "bedrock converse", Err: err}
	}

	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return "", &UpstreamError{Op: "bedrock converse", Err: fmt.Errorf("empty response for model %s", g.modelID)}
	}
	text, ok := msg.Value.Content[0].(*brtypes.ContentBlockMemberText)
	if !ok {
		return "", &UpstreamError{Op: "bedrock converse", Err: fmt.Errorf("non-text content block for model %s", g.modelID)}
	}
	return text.Value, nil
}

// ssmParameterGetter is the slice of the SSM API the Azure gateway needs.
type ssmParameterGetter interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, opts ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// AzureOpenAIGateway sends prompts to an Azure OpenAI chat-completions
// deployment. Endpoint and API key are resolved from SSM Parameter Store at
// construction time.
type AzureOpenAIGateway struct {
	endpoint   string
	apiKey     string
	deployment string
	maxTokens  int
	client     *http.Client
}

func NewAzureOpenAIGateway(ctx context.Context, params ssmParameterGetter, mc config.ModelConfig) (*AzureOpenAIGateway, error) {
	endpoint, err := getSSMParameter(ctx, params, mc.EndpointParam)
	if err != nil {
		return nil, err
	}
	apiKey, err := getSSMParameter(ctx, params, mc.APIKeyParam)
	if err != nil {
		return nil, err
	}
	maxTokens := mc.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &AzureOpenAIGateway{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		deployment: mc.Deployment,
		maxTokens:  maxTokens,
		client:     &http.Client{Timeout: llmCallTimeout},
	}, nil
}

type azureChatRequest struct {
	Messages  []azureChatMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type azureChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *AzureOpenAIGateway) SendPrompt(ctx context.Context, prompt string) (string, error) {
	payload := azureChatRequest{
		Messages:  []azureChatMessage{{Role: "user", Content: prompt}},
		MaxTokens: g.maxTokens,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	u := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		g.endpoint, g.deployment, azureAPIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Op: "azure chat completions", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Op: "azure chat completions", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Op: "azure chat completions", Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	var cr azureChatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", &UpstreamError{Op: "azure chat completions", Err: fmt.Errorf("parse response: %w", err)}
	}
	if len(cr.Choices) == 0 {
		return "", &UpstreamError{Op: "azure chat completions", Err: fmt.Errorf("no choices in response")}
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

func getSSMParameter(ctx context.Context, params ssmParameterGetter, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("ssm parameter name not configured")
	}
	out, err := params.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get ssm parameter %s: %w", name, err)
	}
	return aws.ToString(out.Parameter.Value), nil
}
