// Package pipeline composes the template store, placeholder renderer, and
// generation client into the end-to-end operation: render the standard
// response, generate a personalized reply, score its deviation, and classify
// compliance.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/corpvoice/corpvoice/internal/compliance"
	"github.com/corpvoice/corpvoice/internal/placeholder"
	"github.com/corpvoice/corpvoice/internal/schema"
	"github.com/corpvoice/corpvoice/internal/store"
	"github.com/corpvoice/corpvoice/internal/tolerance"
)

// Generator is the subset of the llm.Client surface the pipeline depends on.
type Generator interface {
	Personalize(ctx context.Context, inquiry, standardText, tol string) (string, error)
	ScoreDeviation(ctx context.Context, generated, standardText string) float64
}

// Pipeline runs one generation per invocation. It is synchronous and keeps
// no state across runs; callers embedding it for concurrent use should give
// each invocation its own generation client.
type Pipeline struct {
	store  *store.Store
	client Generator
	log    *zap.Logger
}

// New assembles a Pipeline from its collaborators.
func New(s *store.Store, client Generator, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{store: s, client: client, log: log}
}

// RenderStandard looks up the standard response body for a template key and
// fills its placeholders from customer data and company info, in that order.
// An unknown key returns store.ErrTemplateNotFound; no external call has
// been made at that point.
func (p *Pipeline) RenderStandard(templateKey string, customerData, companyInfo map[string]string) (string, error) {
	body, err := p.store.StandardResponse(templateKey)
	if err != nil {
		return "", fmt.Errorf("pipeline: %w", err)
	}
	return placeholder.Render(body, customerData, companyInfo), nil
}

// Generate runs the full operation for one request: render → personalize →
// score → classify. The two provider calls are strictly sequential; scoring
// depends on the personalized text. On success the returned result is
// complete — there are no partial results.
func (p *Pipeline) Generate(ctx context.Context, req schema.Request) (*schema.GenerationResult, error) {
	standardText, err := p.RenderStandard(req.TemplateKey, req.CustomerData, req.CompanyInfo)
	if err != nil {
		return nil, err
	}

	generated, err := p.client.Personalize(ctx, req.Inquiry, standardText, req.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("pipeline: personalize %q: %w", req.TemplateKey, err)
	}

	deviation := p.client.ScoreDeviation(ctx, generated, standardText)

	lvl := tolerance.Lookup(req.Tolerance)
	level := compliance.Classify(deviation, lvl.Limit)

	p.log.Info("response generated",
		zap.String("template", req.TemplateKey),
		zap.String("tolerance", lvl.Name),
		zap.Float64("deviation", deviation),
		zap.String("compliance", string(level)),
	)

	return &schema.GenerationResult{
		GeneratedResponse:   generated,
		StandardResponse:    standardText,
		DeviationPercentage: deviation,
		MaxAllowedDeviation: lvl.Limit,
		IsCompliant:         compliance.IsCompliant(deviation, lvl.Limit),
		ComplianceLevel:     level,
		ComplianceMessage:   compliance.Message(level, lvl.Name, lvl.Limit),
		TemplateKey:         req.TemplateKey,
		Tolerance:           req.Tolerance,
	}, nil
}
