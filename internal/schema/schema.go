// Package schema defines the canonical data types shared across the
// corpvoice pipeline.
package schema

// ComplianceLevel classifies how far a generated response drifted from the
// organization's standard response.
type ComplianceLevel string

const (
	ComplianceExcellent  ComplianceLevel = "excellent"
	ComplianceGood       ComplianceLevel = "good"
	ComplianceAcceptable ComplianceLevel = "acceptable"
	ComplianceWarning    ComplianceLevel = "warning"
)

// Request carries everything the pipeline needs for one generation run.
// CustomerData and CompanyInfo keys are lowercase underscore-separated field
// names; they need not cover every placeholder in the template body.
type Request struct {
	TemplateKey  string            `json:"template_key"`
	Inquiry      string            `json:"inquiry"`
	CustomerData map[string]string `json:"customer_data,omitempty"`
	CompanyInfo  map[string]string `json:"company_info,omitempty"`
	Tolerance    string            `json:"tolerance"`
}

// GenerationResult is the record produced by one pipeline invocation. It is
// created fresh per request and owned entirely by the caller; nothing is
// retained by the pipeline.
type GenerationResult struct {
	GeneratedResponse   string          `json:"generated_response"`
	StandardResponse    string          `json:"standard_response"`
	DeviationPercentage float64         `json:"deviation_percentage"`
	MaxAllowedDeviation int             `json:"max_allowed_deviation"`
	IsCompliant         bool            `json:"is_compliant"`
	ComplianceLevel     ComplianceLevel `json:"compliance_level"`
	ComplianceMessage   string          `json:"compliance_message"`
	TemplateKey         string          `json:"template_type"`
	Tolerance           string          `json:"deviation_tolerance"`
}
