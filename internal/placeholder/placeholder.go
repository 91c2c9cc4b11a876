// Package placeholder substitutes bracketed placeholder tokens in standard
// response bodies with caller-supplied field values.
//
// Tokens are derived from field keys by replacing underscores with spaces and
// title-casing each word: the key "account_number" produces the token
// "[Account Number]". Substitution is exact substring replacement, not regex;
// every occurrence of a token is replaced. Unresolved tokens are left in the
// output verbatim, which downstream display uses as a visible missing-data
// marker.
//
// Values are inserted without escaping. A value that itself contains bracket
// syntax can create spurious follow-on matches for later field sets; this is
// a known limitation of the token format.
package placeholder

import "strings"

// Token derives the placeholder token for a field key, e.g.
// "policy_number" → "[Policy Number]".
func Token(fieldKey string) string {
	words := strings.Split(fieldKey, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return "[" + strings.Join(words, " ") + "]"
}

// Render substitutes the tokens derived from each field set into body.
// Field sets are applied in argument order; in well-formed templates the
// placeholder namespaces do not collide, so the order between customer data
// and company info does not matter.
func Render(body string, fieldSets ...map[string]string) string {
	for _, fields := range fieldSets {
		for key, value := range fields {
			body = strings.ReplaceAll(body, Token(key), value)
		}
	}
	return body
}
