package render

import "strings"

// GroupSubset limits rendering to named groups. Matching is case-insensitive
// and ignores surrounding whitespace. An empty subset matches every group.
type GroupSubset struct {
	Groups []string
}

type groupFilter struct {
	groups map[string]struct{}
}

func newGroupFilter(titles []string) groupFilter {
	return groupFilter{groups: normaliseTokens(titles)}
}

func (f groupFilter) matches(title string) bool {
	if len(f.groups) == 0 {
		return true
	}
	_, ok := f.groups[normaliseToken(title)]
	return ok
}

// ParseGroupList splits a comma separated list of group titles.
func ParseGroupList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normaliseTokens(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		token := normaliseToken(value)
		if token == "" {
			continue
		}
		result[token] = struct{}{}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
