// Package llm constructs the chat model used by the analysis engine.
package llm

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tickerlens/tickerlens/config"
)

// Completer is the narrow slice of the eino chat model the analysis engine
// needs; tests substitute a stub.
type Completer interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// maxCompletionTokens bounds the generated analysis; the prompt additionally
// instructs the model to stay under the delivery character limit.
const maxCompletionTokens = 2000

// NewDeepSeek creates the DeepSeek chat model from config.
func NewDeepSeek(ctx context.Context, cfg *config.Config) (Completer, error) {
	return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
		APIKey:    cfg.DeepSeekAPIKey,
		Model:     cfg.DeepSeekModel,
		MaxTokens: maxCompletionTokens,
	})
}
