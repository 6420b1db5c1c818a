package html

// ChromeClass is a typed identifier for the CSS classes the form template
// emits.
type ChromeClass string

const (
	ClassForm     ChromeClass = "fieldset-form"
	ClassSection  ChromeClass = "fieldset-section"
	ClassGrid     ChromeClass = "fieldset-grid"
	ClassControl  ChromeClass = "fieldset-control"
	ClassErrors   ChromeClass = "fieldset-errors"
	ClassInvalid  ChromeClass = "is-invalid"
	ClassFeedback ChromeClass = "invalid-feedback"
)

func chromeClasses() map[string]any {
	return map[string]any{
		"form":     string(ClassForm),
		"section":  string(ClassSection),
		"grid":     string(ClassGrid),
		"control":  string(ClassControl),
		"errors":   string(ClassErrors),
		"invalid":  string(ClassInvalid),
		"feedback": string(ClassFeedback),
	}
}
