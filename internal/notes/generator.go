package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/metrics"
	"github.com/existflow/journal/internal/model"
	"github.com/google/uuid"
)

// DefaultModel is the chat model used when none is configured
const DefaultModel = "gpt-4-0125-preview"

const (
	kindSummary  = "summary"
	kindPeriodic = "periodic"
)

// SettingsReader is the part of the store the pipeline reads from
type SettingsReader interface {
	GetSetting(ctx context.Context, key, fallback string) (string, bool, error)
}

// Generator turns journal entries into markdown notes through a chat model
type Generator struct {
	settings SettingsReader
	client   Completer
	model    string
}

// NewGenerator creates a Generator. An empty model selects DefaultModel.
func NewGenerator(settings SettingsReader, client Completer, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		settings: settings,
		client:   client,
		model:    model,
	}
}

// SummarizeProjectEntries asks the model for a summary of entries, sent as one
// message per entry in the given order. An empty result means no content was returned.
func (g *Generator) SummarizeProjectEntries(ctx context.Context, entries []model.Entry) (string, error) {
	return g.generate(ctx, kindSummary, KeyProjectSummaryPrompt, DefaultProjectSummaryPrompt,
		BuildSummaryMessages(entries), logger.F("entries", len(entries)))
}

// GeneratePeriodicUpdate asks the model for a cross-project update covering label
func (g *Generator) GeneratePeriodicUpdate(ctx context.Context, label string, notes []ProjectNotes) (string, error) {
	messages := []Message{{Role: RoleUser, Content: BuildPeriodicPrompt(label, notes)}}
	return g.generate(ctx, kindPeriodic, KeyPeriodicUpdatePrompt, DefaultPeriodicUpdatePrompt,
		messages, logger.F("label", label), logger.F("projects", len(notes)))
}

func (g *Generator) generate(ctx context.Context, kind, templateKey, templateDefault string, messages []Message, fields ...logger.Field) (string, error) {
	log := logger.WithFields(append(fields, logger.F("kind", kind), logger.F("generation_id", uuid.NewString()))...)

	apiKey, ok, err := g.settings.GetSetting(ctx, KeyAPIKey, "")
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	if !ok {
		log.Warn("Generation skipped, credential not set")
		metrics.RecordGeneration(kind, "config_error", 0)
		return "", ErrCredentialNotSet
	}

	system, _, err := g.settings.GetSetting(ctx, templateKey, templateDefault)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt template: %w", err)
	}

	log.Info("Requesting generation", logger.F("model", g.model), logger.F("messages", len(messages)))
	start := time.Now()

	text, err := g.client.Complete(ctx, apiKey, ChatRequest{
		Model:    g.model,
		System:   system,
		Messages: messages,
	})
	duration := time.Since(start)
	if err != nil {
		log.Error("Generation failed", logger.F("error", err), logger.F("duration", duration))
		metrics.RecordGeneration(kind, "request_error", duration)
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			err = &RequestError{Err: err}
		}
		return "", err
	}

	result := "ok"
	if text == "" {
		result = "empty"
	}
	metrics.RecordGeneration(kind, result, duration)
	log.Info("Generation finished", logger.F("result", result), logger.F("duration", duration))
	return text, nil
}
