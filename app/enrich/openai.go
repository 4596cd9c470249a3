package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const systemPrompt = "You are a classification assistant for a curated developer news feed. " +
	"Follow the requested output format exactly: one labeled field per line, no markdown, no extra commentary."

// OpenAIClassifier implements Classifier against the OpenAI chat
// completions API.
type OpenAIClassifier struct {
	client openai.Client
	model  string
}

func NewOpenAIClassifier(apiKey, model string) *OpenAIClassifier {
	return &OpenAIClassifier{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, req Request) (Verdict, error) {
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(req)),
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(400),
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("openai request failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return Verdict{}, fmt.Errorf("no response from openai")
	}

	content := response.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return Verdict{}, fmt.Errorf("empty response from openai")
	}

	return ParseVerdict(content), nil
}

func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("Classify the article behind this URL:\n")
	sb.WriteString(req.URL)
	sb.WriteString("\n\n")

	if req.Context != "" {
		sb.WriteString("Article text:\n")
		sb.WriteString(req.Context)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Pick exactly one topic from this list:\n")
	for _, topic := range req.AllowedTopics {
		sb.WriteString("- ")
		sb.WriteString(topic)
		sb.WriteString("\n")
	}

	if len(req.AllowedCategories) > 0 {
		sb.WriteString("\nPick exactly one category from this list:\n")
		for _, category := range req.AllowedCategories {
			sb.WriteString("- ")
			sb.WriteString(category)
			sb.WriteString("\n")
		}
	}

	if len(req.IgnoreRules) > 0 {
		sb.WriteString("\nIf any of these rules applies, respond with a single IGNORE line instead:\n")
		for _, rule := range req.IgnoreRules {
			sb.WriteString("- ")
			sb.WriteString(rule)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nRespond with labeled lines in this exact format:\n")
	sb.WriteString("TOPIC: <topic>\n")
	if len(req.AllowedCategories) > 0 {
		sb.WriteString("CATEGORY: <category>\n")
	}
	sb.WriteString("SUMMARY: <one or two sentence summary>\n")
	sb.WriteString("or, when an ignore rule matches:\n")
	sb.WriteString("IGNORE: <reason>\n")

	return sb.String()
}
