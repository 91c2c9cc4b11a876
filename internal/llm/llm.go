// Package llm wraps the external text-generation service: prompt
// construction for personalization and deviation scoring, provider dispatch,
// and the best-effort numeric parse of scoring output.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/corpvoice/corpvoice/internal/tolerance"
)

// ErrMissingCredential is returned at client construction when the selected
// provider's API key is not present in the environment.
var ErrMissingCredential = errors.New("llm: missing API credential")

// ErrGeneration wraps any transport or service failure during
// personalization. Personalization is not retried; the request fails.
var ErrGeneration = errors.New("llm: generation failed")

// Provider is the interface for text-generation backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call
// site. Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(providerName, model string) (Provider, error) = defaultNewProvider

// DefaultModel is the model used when the caller does not choose one.
const DefaultModel = "gpt-3.5-turbo"

// Generation parameters. Personalization runs moderately hot so responses
// can vary with the inquiry; scoring runs near-deterministic with a small
// output budget since the answer is a single number.
const (
	personalizeMaxTokens   = 800
	personalizeTemperature = 0.7
	scoreMaxTokens         = 50
	scoreTemperature       = 0.1
)

// Client issues personalization and deviation-scoring calls against one
// provider. It is safe for reuse across sequential calls; concurrent use is
// not a design contract — concurrent callers should own separate clients.
type Client struct {
	provider Provider
	model    string
	log      *zap.Logger
}

// NewClient constructs a Client for the named provider and model. The
// provider reads its API key from the environment here, so a missing
// credential fails construction rather than the first call.
func NewClient(providerName, model string, log *zap.Logger) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	p, err := NewProvider(providerName, model)
	if err != nil {
		return nil, fmt.Errorf("llm: create provider: %w", err)
	}
	return &Client{provider: p, model: model, log: log}, nil
}

// personalizeSystemPrompt fixes the model's role for personalization calls.
const personalizeSystemPrompt = "You are a corporate customer service representative. " +
	"You MUST use the provided standard response as your base template and stay within " +
	"the specified deviation tolerance. Personalize the standard response to address the " +
	"specific customer inquiry while maintaining the organization's approved language, " +
	"tone, and structure. Do not deviate beyond the allowed percentage."

// scoreSystemPrompt fixes the model's role for deviation-scoring calls.
const scoreSystemPrompt = "You are an expert text comparison analyst. " +
	"Provide only the numeric percentage of deviation."

// Personalize generates a reply to inquiry grounded on standardText, steered
// by the named tolerance level. Unknown tolerance names fall back to the
// minimal level. Any provider failure wraps ErrGeneration; there is no retry.
func (c *Client) Personalize(ctx context.Context, inquiry, standardText, tol string) (string, error) {
	lvl := tolerance.Lookup(tol)
	prompt := buildPersonalizePrompt(inquiry, standardText, lvl)

	raw, err := c.provider.Complete(ctx, personalizeSystemPrompt, prompt,
		personalizeMaxTokens, personalizeTemperature)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return strings.TrimSpace(raw), nil
}

// ScoreDeviation asks the model to rate how far generated drifted from
// standardText, as a 0-100 percentage. Scoring is advisory: a provider
// failure or an unparseable answer degrades to 0.0 rather than failing the
// request. The degradation is logged.
func (c *Client) ScoreDeviation(ctx context.Context, generated, standardText string) float64 {
	prompt := buildScorePrompt(generated, standardText)

	raw, err := c.provider.Complete(ctx, scoreSystemPrompt, prompt,
		scoreMaxTokens, scoreTemperature)
	if err != nil {
		c.log.Warn("deviation scoring failed; reporting 0.0", zap.Error(err))
		return 0.0
	}
	return ParseDeviation(raw)
}

// buildPersonalizePrompt assembles the personalization user prompt.
func buildPersonalizePrompt(inquiry, standardText string, lvl tolerance.Level) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Customer Inquiry: %s\n\n", inquiry)
	sb.WriteString("Organization's Standard Response Template:\n")
	sb.WriteString(standardText)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Deviation Guidelines: %s\n\n", lvl.Instruction)
	sb.WriteString("Using the standard response above as your base template, generate a " +
		"personalized response that addresses the specific customer inquiry while staying " +
		"within the allowed deviation tolerance. Maintain the organization's professional " +
		"tone and include all required corporate elements.")

	return sb.String()
}

// buildScorePrompt assembles the deviation-comparison user prompt.
func buildScorePrompt(generated, standardText string) string {
	var sb strings.Builder

	sb.WriteString("Compare these two responses and calculate the percentage of deviation " +
		"from the standard response.\n")
	sb.WriteString("Consider differences in:\n")
	sb.WriteString("- Content structure and organization\n")
	sb.WriteString("- Tone and language style\n")
	sb.WriteString("- Information completeness\n")
	sb.WriteString("- Professional formality\n")
	sb.WriteString("- Specific details and procedures\n\n")
	sb.WriteString("Standard Response:\n")
	sb.WriteString(standardText)
	sb.WriteString("\n\nGenerated Response:\n")
	sb.WriteString(generated)
	sb.WriteString("\n\nProvide ONLY a numeric percentage (0-100) representing how much the " +
		"generated response deviates from the standard.\n")
	sb.WriteString("0% means identical, 100% means completely different.")

	return sb.String()
}

// deviationRe matches the first integer or decimal in free text. The parse is
// deliberately permissive: scoring models are asked to answer with only a
// number but often wrap it in prose ("Deviation: 73%").
var deviationRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseDeviation extracts the first numeric substring from raw. If no number
// is present the documented fallback is 0.0; scoring is advisory and must
// never abort the pipeline.
func ParseDeviation(raw string) float64 {
	m := deviationRe.FindString(raw)
	if m == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// ── Provider dispatch ─────────────────────────────────────────────────────────

// defaultNewProvider dispatches to the appropriate provider implementation.
func defaultNewProvider(providerName, model string) (Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai", "":
		return newOpenAIProvider(model)
	case "anthropic":
		return newAnthropicProvider(model)
	case "google":
		return newGoogleProvider(model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", providerName)
	}
}

// ── Anthropic provider ───────────────────────────────────────────────────────

// anthropicProvider implements Provider using the Anthropic SDK.
// anthropic.Client is a value type; the SDK's NewClient returns it by value.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropicProvider(model string) (Provider, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY environment variable not set", ErrMissingCredential)
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &anthropicProvider{client: client, model: model}, nil
}

func (p *anthropicProvider) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	maxTokens int,
	temperature float64,
) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages.new: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		// "text" is the only content block type carrying assistant output;
		// the SDK does not expose a typed constant for it in this version.
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic: response contained no text content blocks")
	}
	return strings.Join(parts, ""), nil
}
