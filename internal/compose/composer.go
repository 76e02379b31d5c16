package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rosterlens.app/engine/common/llm"
)

const (
	// maxAnswerRunes bounds generated answers; anything longer is treated
	// as degenerate output and replaced by the template.
	maxAnswerRunes = 2000

	// retryDelay is the pause before the single generation retry.
	retryDelay = time.Second

	systemPrompt = "You are a data-quality assistant for a healthcare provider roster. " +
		"Answer the user's question using only the structured query result provided. " +
		"Be concise and factual. Never invent providers, counts, or scores that are " +
		"not in the result."
)

// answerSchema is the structured output contract for generated answers.
type answerSchema struct {
	Answer string `json:"answer" jsonschema_description:"The natural-language answer to the user's question"`
}

var answerJSONSchema = llm.GenerateSchema[answerSchema]()

// Composer renders results as natural language. Generation is attempted
// when a generator is configured; every failure path lands on the
// template, so composing never returns an error.
type Composer struct {
	gen       llm.Generator
	maxTokens int
}

// NewComposer builds a composer. A nil generator means template-only
// operation.
func NewComposer(gen llm.Generator, maxTokens int) *Composer {
	return &Composer{gen: gen, maxTokens: maxTokens}
}

// Compose produces the answer text for a query and its result, and
// reports whether the generative stage produced it.
func (c *Composer) Compose(ctx context.Context, query string, res Result) (string, bool) {
	if c.gen != nil {
		if text, err := c.generate(ctx, query, res); err == nil {
			return text, true
		} else {
			slog.WarnContext(ctx, "generative composition failed, using template",
				"intent", string(res.Intent),
				"error", err)
		}
	}
	return RenderTemplate(res), false
}

func (c *Composer) generate(ctx context.Context, query string, res Result) (string, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	var out answerSchema
	// One retry on transient inference errors; the ask path is
	// interactive and the template covers persistent failures.
	for attempt := 0; attempt < 2; attempt++ {
		_, err = c.gen.Generate(ctx, llm.Request{
			SystemPrompt: systemPrompt,
			UserPrompt: fmt.Sprintf("Question: %s\n\nQuery result (intent %s):\n%s",
				query, res.Intent, payload),
			SchemaName:  "roster_answer",
			Schema:      answerJSONSchema,
			MaxTokens:   c.maxTokens,
			Temperature: llm.Temp(0.2),
		}, &out)
		if err == nil {
			break
		}
		if !llm.IsRetryable(ctx, err) {
			return "", err
		}
		if attempt == 0 {
			slog.WarnContext(ctx, "answer generation retry", "error", err)
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(out.Answer)
	if answer == "" {
		return "", fmt.Errorf("empty generated answer")
	}
	if len([]rune(answer)) > maxAnswerRunes {
		return "", fmt.Errorf("generated answer too long: %d runes", len([]rune(answer)))
	}
	return answer, nil
}
