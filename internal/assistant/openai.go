package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"ledgerai/internal/infra"
	"ledgerai/internal/model"
)

// OpenAIExtractor is the production Extractor backed by a chat-completions
// model in JSON mode. A circuit breaker fast-fails turns while the upstream
// API is down instead of holding every request for the full timeout.
type OpenAIExtractor struct {
	client      *openai.Client
	model       string
	temperature float32
	breaker     *infra.CircuitBreaker
}

func NewOpenAIExtractor(client *openai.Client, modelName string) *OpenAIExtractor {
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &OpenAIExtractor{
		client:      client,
		model:       modelName,
		temperature: 0.1,
		breaker:     infra.NewCircuitBreaker(infra.DefaultCBConfig()),
	}
}

// Extract sends one chat turn to the model and parses the JSON contract.
// Context deadline is the caller's responsibility — the chat service sets a
// per-turn timeout so the UI is never stuck "processing" indefinitely.
func (e *OpenAIExtractor) Extract(ctx context.Context, message string, snapshot Snapshot, history []HistoryEntry) (*Result, error) {
	var resp openai.ChatCompletionResponse
	err := e.breaker.Execute(func() error {
		var cerr error
		resp, cerr = e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       e.model,
			Temperature: e.temperature,
			MaxTokens:   1000,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(message, snapshot, history)},
			},
		})
		return cerr
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty choices")
	}

	content := resp.Choices[0].Message.Content
	log.Debug().Str("response", content).Msg("extractor raw response")

	return parseResult(content)
}

func buildUserPrompt(message string, snapshot Snapshot, history []HistoryEntry) string {
	var b strings.Builder

	ctxJSON, _ := json.Marshal(map[string]interface{}{
		"customers": snapshot.Customers,
		"products":  snapshot.Products,
	})
	b.WriteString("System data: ")
	b.Write(ctxJSON)
	b.WriteString("\n\nConversation history:\n")
	for _, h := range history {
		b.WriteString(h.Role)
		b.WriteString(": ")
		b.WriteString(h.Content)
		b.WriteString("\n")
	}
	b.WriteString("\nNew message: ")
	b.WriteString(message)
	return b.String()
}

// parseResult tolerates the model bending the contract: numbers where
// strings were asked for, missing data object, markdown fences. Anything it
// cannot salvage is an error the chat service downgrades to GENERAL_CHAT.
func parseResult(content string) (*Result, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("parse extractor response: %w", err)
	}

	intent := getString(raw, "intent")
	if intent == "" {
		intent = model.IntentGeneralChat
	}

	res := &Result{
		Message: getString(raw, "message"),
		Intent:  intent,
	}

	if data, ok := raw["data"].(map[string]interface{}); ok {
		res.Data = model.DraftPayload{
			Intent:       intent,
			CustomerName: getString(data, "customerName"),
			ProductName:  getString(data, "productName"),
			Quantity:     getString(data, "quantity"),
			Price:        getString(data, "price"),
			Amount:       getString(data, "amount"),
			Phone:        getString(data, "phone"),
			Address:      getString(data, "address"),
			Category:     getString(data, "category"),
			NewStock:     getString(data, "newStock"),
		}
	} else {
		res.Data = model.DraftPayload{Intent: intent}
	}
	return res, nil
}

// getString reads a field that may arrive as a string or a number.
func getString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}
