package render

import (
	"strings"

	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/validation"
)

// ErrorMapping splits messages into field-level and form-level groups keyed
// by field key.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// For returns the messages attached to key.
func (m ErrorMapping) For(key string) []string {
	if m.Fields == nil {
		return nil
	}
	return m.Fields[key]
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapIssues turns a validation report into an errors payload for
// RenderOptions.Errors.
func MapIssues(report validation.Report) map[string][]string {
	return report.ByKey()
}

// MapErrorPayload resolves payload keys against the schema. Keys may be
// dotted ("serial.port") or slash paths ("/serial/port"); the longest prefix
// naming a field wins. Anything else becomes a form-level message.
func MapErrorPayload(schema *model.Schema, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 || schema == nil {
		mapping.Fields = nil
		for _, messages := range payload {
			mapping.Form = append(mapping.Form, messages...)
		}
		mapping.Form = normalizeMessages(mapping.Form)
		return mapping
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		key, ok := mapErrorPath(schema, rawPath)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[key] = normalizeMessages(append(mapping.Fields[key], normalized...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(schema *model.Schema, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if _, ok := schema.Field(trimmed); ok {
		return trimmed, true
	}
	segments := parsePathSegments(trimmed)
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := schema.Field(candidate); ok {
			return candidate, true
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__":
		return true
	default:
		return false
	}
}
