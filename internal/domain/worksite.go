package domain

import (
	"fmt"
	"strings"
)

// Worksite is read-only reference data: a billing worksite an operator can
// assign a journey to.
type Worksite struct {
	ID   string `json:"worksite_id"`
	Name string `json:"worksite_name"`
}

// worksiteTokenSeparator joins id and name in the autocomplete token format.
const worksiteTokenSeparator = " | "

// Token renders the worksite in the exact format the autocomplete emits and
// the validation form submits back: "<id> | <name>".
func (w Worksite) Token() string {
	return w.ID + worksiteTokenSeparator + w.Name
}

// ParseWorksiteToken extracts the worksite id from a "<id> | <name>" token.
// Returns ErrInvalidWorksite when the token does not have exactly two parts.
func ParseWorksiteToken(token string) (string, error) {
	parts := strings.Split(token, worksiteTokenSeparator)
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: malformed token %q", ErrInvalidWorksite, token)
	}
	return parts[0], nil
}
