package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpvoice/corpvoice/internal/schema"
	"github.com/corpvoice/corpvoice/internal/store"
)

const testResponses = `{
  "policy_cancellation_response": "Dear [Customer Name],\n\nYour [Policy Type] policy [Policy Number] will be cancelled effective [Effective Date]. A refund of [Refund Amount] will be issued.\n\nSincerely,\n[Representative Name]\n[Company Name]"
}`

const testCompany = `{
  "company_name": "Acme Insurance",
  "company_phone": "1-800-555-0100",
  "company_email": "support@acme.example",
  "departments": {}
}`

// fakeGenerator is a scripted Generator that records calls.
type fakeGenerator struct {
	personalized   string
	personalizeErr error
	deviation      float64

	personalizeCalls int
	scoreCalls       int
	lastStandard     string
}

func (f *fakeGenerator) Personalize(_ context.Context, _, standardText, _ string) (string, error) {
	f.personalizeCalls++
	f.lastStandard = standardText
	if f.personalizeErr != nil {
		return "", f.personalizeErr
	}
	return f.personalized, nil
}

func (f *fakeGenerator) ScoreDeviation(_ context.Context, _, _ string) float64 {
	f.scoreCalls++
	return f.deviation
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"templates_config.json":   `{"policy_cancellation_response": "Policy cancellation confirmation"}`,
		"standard_responses.json": testResponses,
		"company_config.json":     testCompany,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return store.New(dir, nil)
}

func janeDoe() map[string]string {
	return map[string]string{
		"customer_name":  "Jane Doe",
		"policy_number":  "P-1002",
		"policy_type":    "Auto",
		"effective_date": "2024-01-01",
		"refund_amount":  "$120.00",
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{personalized: "Dear Jane Doe, your Auto policy P-1002 ...", deviation: 8}
	p := New(newTestStore(t), gen, nil)

	companyInfo := map[string]string{
		"company_name":        "Acme Insurance",
		"representative_name": "Customer Service Team",
	}
	res, err := p.Generate(context.Background(), schema.Request{
		TemplateKey:  "policy_cancellation_response",
		Inquiry:      "I want to cancel my auto policy.",
		CustomerData: janeDoe(),
		CompanyInfo:  companyInfo,
		Tolerance:    "strict",
	})
	require.NoError(t, err)

	// Every customer placeholder was filled; none of the derived tokens
	// survive in the rendered standard text.
	for _, token := range []string{"[Customer Name]", "[Policy Number]", "[Policy Type]", "[Effective Date]", "[Refund Amount]"} {
		assert.NotContains(t, res.StandardResponse, token)
	}
	assert.Contains(t, res.StandardResponse, "Jane Doe")
	assert.Contains(t, res.StandardResponse, "$120.00")

	assert.Equal(t, 10, res.MaxAllowedDeviation)
	assert.Equal(t, 8.0, res.DeviationPercentage)
	assert.True(t, res.IsCompliant)
	assert.Equal(t, schema.ComplianceExcellent, res.ComplianceLevel)
	assert.Equal(t, "policy_cancellation_response", res.TemplateKey)
	assert.Equal(t, "strict", res.Tolerance)

	// The personalize call received the rendered text, not the raw body.
	assert.Equal(t, res.StandardResponse, gen.lastStandard)
	assert.Equal(t, 1, gen.personalizeCalls)
	assert.Equal(t, 1, gen.scoreCalls)
}

func TestGenerate_UnknownTemplateMakesNoProviderCalls(t *testing.T) {
	gen := &fakeGenerator{}
	p := New(newTestStore(t), gen, nil)

	_, err := p.Generate(context.Background(), schema.Request{
		TemplateKey: "no_such_template",
		Inquiry:     "hello",
		Tolerance:   "minimal",
	})
	require.ErrorIs(t, err, store.ErrTemplateNotFound)
	assert.Zero(t, gen.personalizeCalls)
	assert.Zero(t, gen.scoreCalls)
}

func TestGenerate_PersonalizeFailureAbortsBeforeScoring(t *testing.T) {
	gen := &fakeGenerator{personalizeErr: errors.New("service unavailable")}
	p := New(newTestStore(t), gen, nil)

	_, err := p.Generate(context.Background(), schema.Request{
		TemplateKey:  "policy_cancellation_response",
		Inquiry:      "cancel please",
		CustomerData: janeDoe(),
		Tolerance:    "minimal",
	})
	require.Error(t, err)
	assert.Equal(t, 1, gen.personalizeCalls)
	assert.Zero(t, gen.scoreCalls)
}

func TestGenerate_ClassificationPerTolerance(t *testing.T) {
	cases := []struct {
		tolerance string
		deviation float64
		ceiling   int
		level     schema.ComplianceLevel
		compliant bool
	}{
		{"strict", 10, 10, schema.ComplianceExcellent, true},
		{"strict", 11, 10, schema.ComplianceWarning, false},
		{"minimal", 18, 25, schema.ComplianceGood, true},
		{"moderate", 40, 50, schema.ComplianceAcceptable, true},
		{"flexible", 80, 70, schema.ComplianceWarning, false},
		// Unknown tolerance falls back to minimal.
		{"whatever", 30, 25, schema.ComplianceWarning, false},
	}
	for _, c := range cases {
		gen := &fakeGenerator{personalized: "reply", deviation: c.deviation}
		p := New(newTestStore(t), gen, nil)

		res, err := p.Generate(context.Background(), schema.Request{
			TemplateKey:  "policy_cancellation_response",
			Inquiry:      "q",
			CustomerData: janeDoe(),
			Tolerance:    c.tolerance,
		})
		require.NoError(t, err, "tolerance %s", c.tolerance)
		assert.Equal(t, c.ceiling, res.MaxAllowedDeviation, "tolerance %s", c.tolerance)
		assert.Equal(t, c.level, res.ComplianceLevel, "tolerance %s deviation %v", c.tolerance, c.deviation)
		assert.Equal(t, c.compliant, res.IsCompliant, "tolerance %s deviation %v", c.tolerance, c.deviation)
	}
}

func TestRenderStandard_UnresolvedFieldsStayVisible(t *testing.T) {
	p := New(newTestStore(t), &fakeGenerator{}, nil)

	out, err := p.RenderStandard("policy_cancellation_response",
		map[string]string{"customer_name": "Jo"}, nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "[Policy Number]"), "missing data marker was dropped: %s", out)
	assert.Contains(t, out, "Jo")
}
