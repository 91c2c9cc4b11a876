// Package shell implements the interactive console flow: department and
// template menus, inquiry entry, tolerance selection, per-field data
// collection, and result display. It is I/O glue around the pipeline; all
// generation logic lives below it.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/corpvoice/corpvoice/internal/pipeline"
	"github.com/corpvoice/corpvoice/internal/placeholder"
	"github.com/corpvoice/corpvoice/internal/render"
	"github.com/corpvoice/corpvoice/internal/schema"
	"github.com/corpvoice/corpvoice/internal/store"
)

// Shell drives one interactive generation run.
type Shell struct {
	in    *bufio.Scanner
	out   io.Writer
	store *store.Store
	pipe  *pipeline.Pipeline
	log   *zap.Logger
}

// New builds a Shell reading user input from in and writing to out.
func New(in io.Reader, out io.Writer, s *store.Store, p *pipeline.Pipeline, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{
		in:    bufio.NewScanner(in),
		out:   out,
		store: s,
		pipe:  p,
		log:   log,
	}
}

// Run executes the interactive flow once. Errors are reported to the user as
// a single line; only the final print decides the outcome, so Run itself
// returns nil unless input ends unexpectedly.
func (s *Shell) Run(ctx context.Context) error {
	s.welcome()

	deptKey, err := s.selectDepartment()
	if err != nil {
		return s.fail(err)
	}
	companyInfo, err := s.store.DepartmentInfo(deptKey)
	if err != nil {
		return s.fail(err)
	}
	fmt.Fprintf(s.out, "\nCorporate Profile: %s - %s\n", companyInfo["company_name"], companyInfo["department"])
	fmt.Fprintf(s.out, "Contact: %s | %s\n\n", companyInfo["contact_phone"], companyInfo["contact_email"])

	templateKey, exit, err := s.selectTemplate()
	if err != nil {
		return s.fail(err)
	}
	if exit {
		fmt.Fprintln(s.out, "Goodbye!")
		return nil
	}
	if templateKey == "" {
		return nil
	}

	inquiry := s.readInquiry(templateKey)
	if inquiry == "" {
		fmt.Fprintln(s.out, "No customer inquiry provided!")
		return nil
	}

	tol := s.selectTolerance()

	fields := store.RequiredFields(templateKey)
	customerData := s.collectFields(fields)
	fmt.Fprintf(s.out, "\nCustomer data: %s\n", render.FormatFields(customerData, fields))

	fmt.Fprintf(s.out, "\nGenerating corporate response from %s with %s deviation tolerance...\n",
		companyInfo["company_name"], tol)

	result, err := s.pipe.Generate(ctx, schema.Request{
		TemplateKey:  templateKey,
		Inquiry:      inquiry,
		CustomerData: customerData,
		CompanyInfo:  companyInfo,
		Tolerance:    tol,
	})
	if err != nil {
		return s.fail(err)
	}

	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, render.RenderText(result, companyInfo))
	return nil
}

// fail prints the single user-facing error line.
func (s *Shell) fail(err error) error {
	s.log.Debug("interactive run failed", zap.Error(err))
	fmt.Fprintf(s.out, "Error: %v\n", err)
	return nil
}

func (s *Shell) welcome() {
	fmt.Fprintln(s.out, "=== Corporate Customer Communication System ===")
	fmt.Fprintln(s.out, "Generate professional corporate responses to customer inquiries and complaints.")
	fmt.Fprintln(s.out, "Representing your organization's official voice in customer communications.")
	fmt.Fprintln(s.out)
}

// selectDepartment presents the numbered department menu. Blank or invalid
// input selects customer_service.
func (s *Shell) selectDepartment() (string, error) {
	departments, err := s.store.Departments()
	if err != nil {
		return "", err
	}
	if len(departments) == 0 {
		return "customer_service", nil
	}

	keys := make([]string, 0, len(departments))
	for k := range departments {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(s.out, "=== Available Departments ===")
	for i, k := range keys {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, departments[k])
	}
	fmt.Fprintf(s.out, "\nSelect department (1-%d) or press Enter for Customer Service:\n", len(keys))

	choice := s.readLine()
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(keys) {
		return keys[n-1], nil
	}
	return "customer_service", nil
}

// selectTemplate presents the numbered template menu. The user may answer
// with a number, a free-text template name, or "exit".
func (s *Shell) selectTemplate() (key string, exit bool, err error) {
	templates, err := s.store.TemplateKeys()
	if err != nil {
		return "", false, err
	}

	fmt.Fprintln(s.out, "Available Response Templates:")
	for i, t := range templates {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, displayName(t))
	}
	fmt.Fprintln(s.out, "\nSelect a template number (or type 'exit' to quit):")

	input := s.readLine()
	if strings.EqualFold(input, "exit") {
		return "", true, nil
	}

	if n, convErr := strconv.Atoi(input); convErr == nil {
		if n >= 1 && n <= len(templates) {
			return templates[n-1], false, nil
		}
		fmt.Fprintln(s.out, "Invalid template number!")
		return "", false, nil
	}

	// Free-text fallback: normalize the entered name to a template key.
	candidate := NormalizeTemplateName(input)
	for _, t := range templates {
		if t == candidate {
			return t, false, nil
		}
	}
	fmt.Fprintf(s.out, "Template not found. Available templates: %s\n", displayList(templates))
	return "", false, nil
}

func (s *Shell) readInquiry(templateKey string) string {
	fmt.Fprintf(s.out, "\nSelected template: %s\n", displayName(templateKey))
	fmt.Fprintln(s.out, "\nEnter the customer's question, inquiry, or complaint:")
	return s.readLine()
}

// selectTolerance presents the 1-4 tolerance menu. Anything else selects
// minimal.
func (s *Shell) selectTolerance() string {
	fmt.Fprintln(s.out, "\n=== Deviation Tolerance Settings ===")
	fmt.Fprintln(s.out, "How much should the AI be allowed to deviate from your standard response?")
	fmt.Fprintln(s.out, "1. Strict (0-10% deviation) - Follow standard exactly")
	fmt.Fprintln(s.out, "2. Minimal (0-25% deviation) - Minor modifications allowed")
	fmt.Fprintln(s.out, "3. Moderate (0-50% deviation) - Moderate personalization allowed")
	fmt.Fprintln(s.out, "4. Flexible (0-70% deviation) - Significant customization allowed")
	fmt.Fprint(s.out, "Select deviation tolerance (1-4): ")

	choices := map[string]string{"1": "strict", "2": "minimal", "3": "moderate", "4": "flexible"}
	tol, ok := choices[s.readLine()]
	if !ok {
		tol = "minimal"
	}
	fmt.Fprintf(s.out, "Selected: %s deviation tolerance\n", tol)
	return tol
}

// collectFields prompts for each required field. A blank answer keeps the
// field's placeholder token as its value, which stays visible in the final
// text as a missing-data marker.
func (s *Shell) collectFields(fields []string) map[string]string {
	if len(fields) == 0 {
		return map[string]string{}
	}

	fmt.Fprintln(s.out, "\n=== Customer Data Collection ===")
	fmt.Fprintln(s.out, "Please provide the following customer information:")

	data := make(map[string]string, len(fields))
	for _, field := range fields {
		fmt.Fprintf(s.out, "%s: ", displayName(field))
		value := s.readLine()
		if value == "" {
			value = placeholder.Token(field)
		}
		data[field] = value
	}
	return data
}

func (s *Shell) readLine() string {
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

// NormalizeTemplateName turns free-text template input into a template key:
// lowercase, spaces to underscores, with a "_response" suffix. "Policy
// Cancellation" becomes "policy_cancellation_response".
func NormalizeTemplateName(input string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(input)), " ", "_") + "_response"
}

// displayName renders a template key for menus, e.g.
// "claim_denial_notification" → "Claim Denial Notification".
func displayName(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func displayList(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = displayName(k)
	}
	return strings.Join(names, ", ")
}
