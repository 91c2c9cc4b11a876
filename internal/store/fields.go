package store

// templateFields maps each template key to the customer data fields the
// interaction shell collects for it. This is a static contract, not derived
// from the placeholders present in the standard response body.
var templateFields = map[string][]string{
	"customer_inquiry_response":    {"customer_name", "account_number"},
	"complaint_resolution_letter":  {"customer_name", "complaint_number"},
	"policy_cancellation_response": {"customer_name", "policy_number", "policy_type", "effective_date", "refund_amount"},
	"claim_processing_update":      {"customer_name", "claim_number", "policy_number", "incident_date", "claim_status", "next_steps"},
	"claim_approval_notification":  {"customer_name", "claim_number", "approved_amount", "payment_date", "settlement_details"},
	"claim_denial_notification":    {"customer_name", "claim_number", "policy_number", "denial_reason", "policy_section", "appeal_process"},
	"billing_inquiry_response":     {"customer_name", "account_number", "billing_period", "amount_due", "due_date", "payment_methods"},
	"premium_adjustment_notice":    {"customer_name", "policy_number", "current_premium", "new_premium", "effective_date", "increase_reason"},
	"coverage_modification_notice": {"customer_name", "policy_number", "coverage_changes", "effective_date", "premium_impact"},
	"new_customer_welcome":         {"customer_name", "policy_number", "agent_name", "agent_contact", "coverage_summary", "important_dates"},
}

// RequiredFields returns the customer data fields for a template key, in
// collection order. Unknown keys return nil; the caller then collects no
// customer data and any placeholders stay visible in the rendered output.
func RequiredFields(templateKey string) []string {
	return templateFields[templateKey]
}
