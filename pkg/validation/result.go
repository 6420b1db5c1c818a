// Package validation holds the pure validation rules applied to settings
// fields plus a set of field-independent domain validators. Nothing here
// returns an error: every outcome is a Result value.
package validation

import "strings"

// SuccessMessage is the message carried by every passing Result.
const SuccessMessage = "Valid"

// Result is the immutable outcome of a validation rule.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Success returns the generic passing result.
func Success() Result {
	return Result{Valid: true, Message: SuccessMessage}
}

// Failure returns a failing result carrying msg.
func Failure(msg string) Result {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = "Invalid value"
	}
	return Result{Valid: false, Message: msg}
}

func (r Result) String() string {
	return r.Message
}

// First returns the first failing result in rules, evaluated lazily in order,
// or Success when all pass.
func First(rules ...func() Result) Result {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if res := rule(); !res.Valid {
			return res
		}
	}
	return Success()
}

// Issue is a failing result attached to a field key.
type Issue struct {
	Key     string `json:"key"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

// Report aggregates issues for a whole settings schema.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Add records res against key when it failed.
func (r *Report) Add(key, label string, res Result) {
	if r == nil || res.Valid {
		return
	}
	r.Valid = false
	r.Issues = append(r.Issues, Issue{Key: key, Label: label, Message: res.Message})
}

// ByKey indexes issue messages by field key, the shape renderers consume.
func (r Report) ByKey() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Key] = append(out[issue.Key], issue.Message)
	}
	return out
}
