package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplates = `{
  "customer_inquiry_response": "General inquiry response",
  "policy_cancellation_response": "Policy cancellation confirmation"
}`

const testResponses = `{
  "customer_inquiry_response": "Dear [Customer Name], thank you for contacting [Company Name].",
  "policy_cancellation_response": "Dear [Customer Name], policy [Policy Number] is cancelled effective [Effective Date]."
}`

const testCompany = `{
  "company_name": "Acme Insurance",
  "company_type": "Insurance Provider",
  "company_phone": "1-800-555-0100",
  "company_email": "support@acme.example",
  "departments": {
    "claims": {
      "department": "Claims Processing",
      "representative_name": "Claims Team",
      "contact_phone": "1-800-555-0101",
      "contact_email": "claims@acme.example",
      "hours": "Mon-Fri 8am-6pm",
      "fax": "1-800-555-0199"
    },
    "underwriting": {}
  }
}`

func writeConfigs(t *testing.T, templates, responses, company string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"templates_config.json":   templates,
		"standard_responses.json": responses,
		"company_config.json":     company,
	}
	for name, body := range files {
		if body == "" {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestStandardResponse(t *testing.T) {
	dir := writeConfigs(t, testTemplates, testResponses, testCompany)
	s := New(dir, nil)

	body, err := s.StandardResponse("policy_cancellation_response")
	require.NoError(t, err)
	assert.Contains(t, body, "[Policy Number]")

	_, err = s.StandardResponse("nonexistent_template")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateKeys_Sorted(t *testing.T) {
	dir := writeConfigs(t, testTemplates, testResponses, testCompany)
	s := New(dir, nil)

	keys, err := s.TemplateKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"customer_inquiry_response", "policy_cancellation_response"}, keys)
}

func TestTemplatePrompt(t *testing.T) {
	dir := writeConfigs(t, testTemplates, testResponses, testCompany)
	s := New(dir, nil)

	p, err := s.TemplatePrompt("customer_inquiry_response")
	require.NoError(t, err)
	assert.Equal(t, "General inquiry response", p)

	_, err = s.TemplatePrompt("missing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDepartmentInfo_KnownDepartmentOverlaysBase(t *testing.T) {
	dir := writeConfigs(t, testTemplates, testResponses, testCompany)
	s := New(dir, nil)

	info, err := s.DepartmentInfo("claims")
	require.NoError(t, err)
	assert.Equal(t, "Acme Insurance", info["company_name"])
	assert.Equal(t, "Claims Processing", info["department"])
	assert.Equal(t, "1-800-555-0101", info["contact_phone"])
	// Extra keys on the department entry are carried through.
	assert.Equal(t, "1-800-555-0199", info["fax"])
}

func TestDepartmentInfo_UnknownDepartmentFallsBack(t *testing.T) {
	dir := writeConfigs(t, testTemplates, testResponses, testCompany)
	s := New(dir, nil)

	info, err := s.DepartmentInfo("no_such_department")
	require.NoError(t, err)
	assert.Equal(t, "Customer Service", info["department"])
	assert.Equal(t, "Customer Service Team", info["representative_name"])
	assert.Equal(t, "1-800-555-0100", info["contact_phone"])
	assert.Equal(t, "support@acme.example", info["contact_email"])
	assert.Equal(t, "Business hours", info["hours"])
}

func TestDepartmentInfo_CompanyDefaults(t *testing.T) {
	dir := writeConfigs(t, testTemplates, testResponses, `{"departments": {}}`)
	s := New(dir, nil)

	info, err := s.DepartmentInfo("customer_service")
	require.NoError(t, err)
	assert.Equal(t, "Our Company", info["company_name"])
	assert.Equal(t, "Organization", info["company_type"])
}

func TestDepartments_DisplayNames(t *testing.T) {
	dir := writeConfigs(t, testTemplates, testResponses, testCompany)
	s := New(dir, nil)

	depts, err := s.Departments()
	require.NoError(t, err)
	assert.Equal(t, "Claims Processing", depts["claims"])
	// Entry without a display name falls back to its title-cased key.
	assert.Equal(t, "Underwriting", depts["underwriting"])
}

func TestMissingFile(t *testing.T) {
	dir := writeConfigs(t, testTemplates, "", testCompany)
	s := New(dir, nil)

	_, err := s.StandardResponse("customer_inquiry_response")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestMalformedFile(t *testing.T) {
	dir := writeConfigs(t, testTemplates, `{"broken":`, testCompany)
	s := New(dir, nil)

	_, err := s.StandardResponse("customer_inquiry_response")
	assert.ErrorIs(t, err, ErrConfigParse)
}

func TestReload_InvalidatesCache(t *testing.T) {
	dir := writeConfigs(t, testTemplates, testResponses, testCompany)
	s := New(dir, nil)

	body, err := s.StandardResponse("customer_inquiry_response")
	require.NoError(t, err)

	// Rewrite the document behind the cache; the old value must be served
	// until Reload drops it.
	updated := `{"customer_inquiry_response": "Updated body for [Customer Name]."}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "standard_responses.json"), []byte(updated), 0o644))

	cached, err := s.StandardResponse("customer_inquiry_response")
	require.NoError(t, err)
	assert.Equal(t, body, cached)

	s.Reload()
	fresh, err := s.StandardResponse("customer_inquiry_response")
	require.NoError(t, err)
	assert.Equal(t, "Updated body for [Customer Name].", fresh)
}

func TestRequiredFields(t *testing.T) {
	fields := RequiredFields("policy_cancellation_response")
	assert.Equal(t, []string{"customer_name", "policy_number", "policy_type", "effective_date", "refund_amount"}, fields)

	assert.Nil(t, RequiredFields("unknown_template"))

	// Every catalog entry names customer_name first.
	for key, fields := range templateFields {
		require.NotEmpty(t, fields, "template %s has no fields", key)
		assert.Equal(t, "customer_name", fields[0], "template %s", key)
	}
}
