package widgets

import (
	"testing"

	"github.com/goliatone/go-fieldset/pkg/model"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.MustField("printing.auto", model.KindCheckbox, model.WithHint("widget", "custom-toggle"))

	if got, ok := reg.Resolve(field); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()
	port := model.WithChoices(model.NewOption("COM1", "COM1"))

	cases := []struct {
		name   string
		field  *model.Field
		expect string
	}{
		{name: "text", field: model.MustField("a", model.KindText), expect: WidgetTextInput},
		{name: "multiline text", field: model.MustField("a", model.KindText, model.WithHint("multiline", "true")), expect: WidgetTextArea},
		{name: "password", field: model.MustField("a", model.KindPassword), expect: WidgetPasswordInput},
		{name: "number", field: model.MustField("a", model.KindNumber), expect: WidgetNumberInput},
		{name: "dropdown", field: model.MustField("a", model.KindDropdown, port), expect: WidgetSelect},
		{name: "inline dropdown", field: model.MustField("a", model.KindDropdown, port, model.WithHint("layout", "inline")), expect: WidgetRadioGroup},
		{name: "checkbox", field: model.MustField("a", model.KindCheckbox), expect: WidgetToggle},
		{name: "file", field: model.MustField("a", model.KindFile), expect: WidgetFilePicker},
		{name: "color", field: model.MustField("a", model.KindColor), expect: WidgetColorSwatch},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok {
				t.Fatalf("expected resolution for %s", tc.name)
			}
			if got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.name, tc.expect, got)
			}
		})
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register("custom", 999, func(field *model.Field) bool {
		return field.Kind() == model.KindCheckbox
	})

	got, ok := reg.Resolve(model.MustField("a", model.KindCheckbox))
	if !ok || got != "custom" {
		t.Fatalf("priority matcher should win, got %q (ok=%v)", got, ok)
	}

	var empty *Registry
	if _, ok := empty.Resolve(model.MustField("a", model.KindText)); ok {
		t.Fatalf("nil registry should not resolve")
	}
}

func TestDecorator_AppliesWidgetHints(t *testing.T) {
	reg := NewRegistry()

	group, err := model.NewGroup("Printing", 1,
		model.MustField("printing.auto", model.KindCheckbox),
		model.MustField("printing.header", model.KindText, model.WithHint("widget", "rich-text")),
	)
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	schema, err := model.NewSchema("Settings", group)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	if err := schema.Decorate(reg); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	auto, _ := schema.Field("printing.auto")
	if auto.Hint(HintWidget) != WidgetToggle {
		t.Fatalf("toggle widget not applied: %q", auto.Hint(HintWidget))
	}
	header, _ := schema.Field("printing.header")
	if header.Hint(HintWidget) != "rich-text" {
		t.Fatalf("explicit widget overwritten: %q", header.Hint(HintWidget))
	}
}

func TestResolve_IgnoresHintsThatDoNotFitTheKind(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  *model.Field
		expect string
	}{
		{name: "password as text", field: model.MustField("a", model.KindPassword, model.WithHint("widget", WidgetTextInput)), expect: WidgetPasswordInput},
		{name: "password as textarea", field: model.MustField("a", model.KindPassword, model.WithHint("widget", WidgetTextArea)), expect: WidgetPasswordInput},
		{name: "password as custom", field: model.MustField("a", model.KindPassword, model.WithHint("widget", "plain")), expect: WidgetPasswordInput},
		{name: "checkbox as select", field: model.MustField("a", model.KindCheckbox, model.WithHint("widget", WidgetSelect)), expect: WidgetToggle},
		{name: "number as text", field: model.MustField("a", model.KindNumber, model.WithHint("widget", WidgetTextInput)), expect: WidgetTextInput},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("resolve: want %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestDecorator_ReplacesMismatchedHints(t *testing.T) {
	group, err := model.NewGroup("Security", 1,
		model.MustField("security.pin", model.KindPassword, model.WithHint("widget", WidgetTextInput)),
	)
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	schema, err := model.NewSchema("Settings", group)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := schema.Decorate(NewRegistry()); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	pin, _ := schema.Field("security.pin")
	if got := pin.Hint(HintWidget); got != WidgetPasswordInput {
		t.Fatalf("widget = %q, want %q", got, WidgetPasswordInput)
	}
}
