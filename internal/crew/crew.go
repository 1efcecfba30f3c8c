// Package crew orchestrates the multi-agent content generation workflow.
// Four agents run sequentially, each receiving the output of the previous
// stages as conversation context:
//
//  1. Researcher - gathers verified findings from credible sources
//  2. Strategist - turns findings into an SEO-optimized outline
//  3. Writer - drafts the article in Markdown following the outline
//  4. Editor - reviews, converts to HTML and emits the final article JSON
package crew

import (
	"blogbrain/pkg/domain"
	"blogbrain/pkg/logger"
	"blogbrain/pkg/serrors"
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// Config carries the LLM settings shared by all four agents. Each agent uses
// its own sampling temperature on top of the shared model endpoint.
type Config struct {
	// BaseURL is the OpenAI-compatible API endpoint.
	BaseURL string
	// APIKey authenticates requests against the model endpoint.
	APIKey string
	// Model is the model name used by all agents.
	Model string
	// MaxSteps bounds the researcher's tool-calling loop.
	MaxSteps int

	// ResearcherTemperature keeps the researcher factual (low).
	ResearcherTemperature float64
	// StrategistTemperature balances structure and creativity.
	StrategistTemperature float64
	// WriterTemperature allows creative, engaging prose (high).
	WriterTemperature float64
	// EditorTemperature keeps the editor strict and consistent (low).
	EditorTemperature float64
}

// Crew wires the four agents together and runs them in sequence.
type Crew struct {
	researcher *react.Agent
	strategist model.ToolCallingChatModel
	writer     model.ToolCallingChatModel
	editor     model.ToolCallingChatModel
}

// New builds the four agents. The researcher gets the provided research and
// scraping tools; the remaining agents are pure chat models.
func New(ctx context.Context, cfg Config, tools []tool.BaseTool) (*Crew, error) {
	researcherModel, err := newChatModel(ctx, cfg, cfg.ResearcherTemperature)
	if err != nil {
		return nil, fmt.Errorf("could not create researcher model: %w", err)
	}

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 12
	}
	researcher, err := react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          maxSteps,
		ToolCallingModel: researcherModel,
		ToolsConfig:      compose.ToolsNodeConfig{Tools: tools},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create researcher agent: %w", err)
	}

	strategist, err := newChatModel(ctx, cfg, cfg.StrategistTemperature)
	if err != nil {
		return nil, fmt.Errorf("could not create strategist model: %w", err)
	}

	writer, err := newChatModel(ctx, cfg, cfg.WriterTemperature)
	if err != nil {
		return nil, fmt.Errorf("could not create writer model: %w", err)
	}

	editor, err := newChatModel(ctx, cfg, cfg.EditorTemperature)
	if err != nil {
		return nil, fmt.Errorf("could not create editor model: %w", err)
	}

	return &Crew{
		researcher: researcher,
		strategist: strategist,
		writer:     writer,
		editor:     editor,
	}, nil
}

// Generate runs the full research, strategy, writing and editing workflow for
// the given request and returns the finished article.
func (c *Crew) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Article, error) {
	logger.Info(ctx, "starting content generation",
		zap.String("topic", req.Topic),
		zap.String("tone", string(req.Tone)))

	brief, err := c.research(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "research stage finished", zap.Int("briefLength", len(brief)))

	strategy, err := c.strategize(ctx, req, brief)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "strategy stage finished", zap.Int("strategyLength", len(strategy)))

	draft, err := c.write(ctx, req, brief, strategy)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "writing stage finished", zap.Int("draftLength", len(draft)))

	final, err := c.edit(ctx, req, brief, strategy, draft)
	if err != nil {
		return nil, err
	}

	article, err := ParseArticle(final)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "content generation finished",
		zap.String("topic", req.Topic),
		zap.Int("wordCount", article.Metadata.WordCount))

	return article, nil
}

func (c *Crew) research(ctx context.Context, req domain.GenerationRequest) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(researcherSystemPrompt),
		schema.UserMessage(researchTaskPrompt(req)),
	}

	out, err := c.researcher.Generate(ctx, msgs)
	if err != nil {
		return "", stageError("research", err)
	}

	return out.Content, nil
}

func (c *Crew) strategize(ctx context.Context, req domain.GenerationRequest, brief string) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(strategistSystemPrompt),
		schema.UserMessage(strategyTaskPrompt(req, brief)),
	}

	out, err := c.strategist.Generate(ctx, msgs)
	if err != nil {
		return "", stageError("strategy", err)
	}

	return out.Content, nil
}

func (c *Crew) write(ctx context.Context, req domain.GenerationRequest, brief, strategy string) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(writerSystemPrompt),
		schema.UserMessage(writingTaskPrompt(req, brief, strategy)),
	}

	out, err := c.writer.Generate(ctx, msgs)
	if err != nil {
		return "", stageError("writing", err)
	}

	return out.Content, nil
}

func (c *Crew) edit(ctx context.Context, req domain.GenerationRequest, brief, strategy, draft string) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(editorSystemPrompt),
		schema.UserMessage(editingTaskPrompt(req, brief, strategy, draft)),
	}

	out, err := c.editor.Generate(ctx, msgs)
	if err != nil {
		return "", stageError("editing", err)
	}

	return out.Content, nil
}

// stageError wraps model failures, preserving already-classified errors so
// rate limits and credential problems keep their kind across stages.
func stageError(stage string, err error) error {
	var sErr *serrors.Error
	if errors.As(err, &sErr) {
		return fmt.Errorf("%s stage: %w", stage, err)
	}

	return serrors.Wrap(classifyModelError(err), err, "%s stage failed", stage)
}
