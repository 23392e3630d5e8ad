package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"smartnotes-server/internal/ai"
	"smartnotes-server/internal/cache"
	"smartnotes-server/internal/domain"
	"smartnotes-server/pkg/logger"
)

// TextGenerator is the upstream model. *ai.Client satisfies it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]ai.Model, error)
	Model() string
}

const (
	opSummary = "summary"
	opImprove = "improve"
	opTags    = "tags"
)

type AIService struct {
	generator TextGenerator
	cache     cache.Cache
	cacheTTL  time.Duration
}

// NewAIService accepts a nil cache; every call then goes upstream.
func NewAIService(generator TextGenerator, c cache.Cache, cacheTTL time.Duration) *AIService {
	return &AIService{
		generator: generator,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

func (s *AIService) Summarize(ctx context.Context, req *domain.TextRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return s.generate(ctx, opSummary, req.Text, ai.SummaryPrompt(req.Text))
}

func (s *AIService) Improve(ctx context.Context, req *domain.TextRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return s.generate(ctx, opImprove, req.Text, ai.ImprovePrompt(req.Text))
}

func (s *AIService) GenerateTags(ctx context.Context, req *domain.TextRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := s.cacheKey(opTags, req.Text)
	if cached, ok := s.lookup(ctx, key); ok {
		var tags []string
		if err := json.Unmarshal([]byte(cached), &tags); err == nil && len(tags) > 0 {
			return tags, nil
		}
	}

	reply, err := s.generator.Generate(ctx, ai.TagsPrompt(req.Text))
	if err != nil {
		return nil, newUpstreamError("generate tags", err)
	}

	tags := ai.ParseTags(reply)
	if len(tags) == 0 {
		return nil, newUpstreamError("generate tags", ai.ErrEmptyReply)
	}

	if encoded, err := json.Marshal(tags); err == nil {
		s.store(ctx, key, string(encoded))
	}

	return tags, nil
}

func (s *AIService) ListModels(ctx context.Context) ([]ai.Model, error) {
	models, err := s.generator.ListModels(ctx)
	if err != nil {
		return nil, newUpstreamError("list models", err)
	}
	return models, nil
}

func (s *AIService) generate(ctx context.Context, op, text, prompt string) (string, error) {
	key := s.cacheKey(op, text)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", newUpstreamError(op, err)
	}

	s.store(ctx, key, reply)
	return reply, nil
}

func (s *AIService) cacheKey(op, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "ai:" + op + ":" + s.generator.Model() + ":" + hex.EncodeToString(sum[:])
}

func (s *AIService) lookup(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	value, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Log(ctx).Warn(ctx, "ai cache read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return value, ok
}

func (s *AIService) store(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		logger.Log(ctx).Warn(ctx, "ai cache write failed", zap.String("key", key), zap.Error(err))
	}
}
