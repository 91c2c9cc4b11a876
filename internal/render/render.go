// Package render produces output from a completed schema.GenerationResult.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/corpvoice/corpvoice/internal/schema"
)

const rule = "============================================================"

// RenderJSON produces a pretty-printed JSON representation of the result,
// for the scripting-oriented command surface.
func RenderJSON(result *schema.GenerationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderText produces the console report for a result: the generated
// response, the rendered standard response it was grounded on, and the
// deviation analysis. companyInfo supplies the letterhead and signature
// lines; missing keys simply render empty.
func RenderText(result *schema.GenerationResult, companyInfo map[string]string) string {
	if result == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString(rule + "\n")
	sb.WriteString("OFFICIAL CORPORATE RESPONSE\n")
	fmt.Fprintf(&sb, "%s - %s\n", companyInfo["company_name"], companyInfo["department"])
	sb.WriteString(rule + "\n")
	sb.WriteString(result.GeneratedResponse)
	sb.WriteString("\n" + rule + "\n\n")

	sb.WriteString(rule + "\n")
	sb.WriteString("ORGANIZATION'S STANDARD RESPONSE\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(result.StandardResponse)
	sb.WriteString("\n" + rule + "\n\n")

	fmt.Fprintf(&sb, "Deviation analysis: %.1f%% deviation from standard response\n",
		result.DeviationPercentage)
	fmt.Fprintf(&sb, "Target: stay within %d%% deviation (%s tolerance)\n",
		result.MaxAllowedDeviation, result.Tolerance)
	sb.WriteString(result.ComplianceMessage + "\n")
	if !result.IsCompliant {
		sb.WriteString("Consider adjusting deviation tolerance or reviewing the standard response\n")
	}
	sb.WriteString(rule + "\n")

	fmt.Fprintf(&sb, "Generated by: %s\n", companyInfo["representative_name"])
	fmt.Fprintf(&sb, "Contact: %s | %s\n", companyInfo["contact_phone"], companyInfo["contact_email"])

	return sb.String()
}

// FormatFields renders a field map for display as "key: value" pairs joined
// with semicolons, or a fixed marker when no data was provided.
func FormatFields(fields map[string]string, order []string) string {
	if len(fields) == 0 {
		return "No customer data provided"
	}
	pairs := make([]string, 0, len(fields))
	for _, k := range order {
		if v, ok := fields[k]; ok {
			pairs = append(pairs, fmt.Sprintf("%s: %s", k, v))
		}
	}
	// Fields outside the declared order still show up, after the ordered ones.
	for k, v := range fields {
		if !contains(order, k) {
			pairs = append(pairs, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(pairs, "; ")
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
