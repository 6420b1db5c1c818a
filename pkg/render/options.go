package render

// RenderOptions describe per-call data a renderer uses without changing the
// schema.
type RenderOptions struct {
	// Subset limits output to some groups.
	Subset GroupSubset
	// Errors carries validation messages keyed by field key. Unknown keys are
	// shown at form level. See MapIssues.
	Errors map[string][]string
}
