package req

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xy-planning-network/compass"
)

// A ValidationError names a field whose value breaks the rule set on it.
type ValidationError struct {
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s, got %q", e.Field, e.Rule, fmt.Sprint(e.Got))
}

// ValidationErrors are all the fields of one form which break their rules.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.String()
	}

	return strings.Join(msgs, "\n")
}

// Fields lists the fields breaking a rule, once each, in the order found.
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]bool, len(v))
	fields := make([]string, 0, len(v))
	for _, e := range v {
		if seen[e.Field] {
			continue
		}
		seen[e.Field] = true
		fields = append(fields, e.Field)
	}

	return fields
}

func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Errors []ValidationError `json:"validationErrors,omitempty"`
	}{v})
}

func (ValidationErrors) Unwrap() error { return compass.ErrNotValid }
