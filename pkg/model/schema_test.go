package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func weighbridgeSchema(t *testing.T) *Schema {
	t.Helper()
	serial, err := NewGroup("Serial Port", 2,
		comPortField(t),
		MustField("serial.baud", KindDropdown, WithChoices(
			NewOption("9600", 9600),
			NewOption("19200", 19200),
		), WithDefault(9600)),
	)
	if err != nil {
		t.Fatalf("serial group: %v", err)
	}
	company, err := NewGroup("Company", 1,
		MustField("company.name", KindText, WithRequired(true), WithLabel("Company name")),
		MustField("company.logo", KindFile, WithFileFilter("*.png")),
		MustField("company.accent", KindColor),
		MustField("company.print", KindCheckbox),
		MustField("company.password", KindPassword),
		MustField("company.maxWeight", KindNumber, WithDefault("100000")),
	)
	if err != nil {
		t.Fatalf("company group: %v", err)
	}
	schema, err := NewSchema("Settings", serial, company)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return schema
}

func TestSchemaFullySeeded(t *testing.T) {
	schema := weighbridgeSchema(t)
	if schema.Len() != 8 {
		t.Fatalf("expected 8 fields, got %d", schema.Len())
	}
	if got := schema.SeededCount(); got != schema.Len() {
		t.Fatalf("seeded %d of %d fields", got, schema.Len())
	}

	total := 0
	for _, g := range schema.Groups() {
		for _, f := range g.Fields() {
			if f.Value().Any() != nil {
				total++
			}
		}
	}
	if total != schema.Len() {
		t.Fatalf("expected every field to hold a value, got %d", total)
	}
}

func TestSchemaSeedAndSnapshot(t *testing.T) {
	schema := weighbridgeSchema(t)

	err := schema.Seed(map[string]any{
		"serial.port":    "COM3",
		"serial.baud":    "19200",
		"company.name":   "Acme Weighing",
		"company.print":  "on",
		"company.accent": "not-a-colour",
		"unknown.key":    "ignored",
	})
	if !errors.Is(err, ErrInvalidFieldValue) {
		t.Fatalf("expected the bad colour to be reported, got %v", err)
	}

	want := map[string]any{
		"serial.port":       "COM3",
		"serial.baud":       "19200",
		"company.name":      "Acme Weighing",
		"company.logo":      "",
		"company.accent":    "#000000",
		"company.print":     true,
		"company.password":  "",
		"company.maxWeight": "100000",
	}
	if diff := cmp.Diff(want, schema.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	if err := schema.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if f, _ := schema.Field("serial.port"); f.Value().String() != "COM1" {
		t.Fatalf("reset did not restore default")
	}
}

func TestSchemaValidateReport(t *testing.T) {
	schema := weighbridgeSchema(t)

	report := schema.Validate()
	if report.Valid || len(report.Issues) != 1 {
		t.Fatalf("expected one issue, got %#v", report)
	}
	if report.Issues[0].Key != "company.name" || report.Issues[0].Message != "Company name is required" {
		t.Fatalf("unexpected issue %#v", report.Issues[0])
	}

	f, _ := schema.Field("company.name")
	_ = f.SetValue("Acme")
	if report := schema.Validate(); !report.Valid {
		t.Fatalf("expected valid schema, got %#v", report)
	}
}

func TestSchemaSubscribe(t *testing.T) {
	schema := weighbridgeSchema(t)

	var keys []string
	sub := schema.Subscribe(func(c Change) { keys = append(keys, c.Key) })

	_ = schema.Seed(map[string]any{"serial.port": "COM2", "company.print": true})
	sub.Unsubscribe()
	_ = schema.Seed(map[string]any{"serial.port": "COM3"})

	if diff := cmp.Diff([]string{"serial.port", "company.print"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaRejectsDuplicateKeys(t *testing.T) {
	a, _ := NewGroup("A", 1, MustField("dup", KindText))
	b, _ := NewGroup("B", 1, MustField("dup", KindText))
	if _, err := NewSchema("x", a, b); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	if _, err := NewGroup("C", 1, MustField("k", KindText), MustField("k", KindText)); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey within group, got %v", err)
	}
}

func TestGroupSealedBySchema(t *testing.T) {
	g, _ := NewGroup("A", 0, MustField("a", KindText))
	if g.Columns() != 1 {
		t.Fatalf("expected column count clamped to 1, got %d", g.Columns())
	}
	if _, err := NewSchema("x", g); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := g.Add(MustField("b", KindText)); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected sealed group to reject Add, got %v", err)
	}
}

// flagCondition enables a field when "gate.open" is true and fails once the
// gate reports a fault.
type flagCondition struct{}

func (flagCondition) Eval(values map[string]any) (bool, error) {
	if values["gate.fault"] == true {
		return false, errors.New("gate sensor fault")
	}
	return values["gate.open"] == true, nil
}

func (flagCondition) References() []string { return []string{"gate.open", "gate.fault"} }

func TestBindEnablementReportsLaterEvaluationErrors(t *testing.T) {
	group, err := NewGroup("Gate", 1,
		MustField("gate.open", KindCheckbox),
		MustField("gate.fault", KindCheckbox),
		MustField("gate.delay", KindNumber, WithDefault(5), WithHint(HintEnabledWhen, "gate.open")),
	)
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	schema, err := NewSchema("Settings", group)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	var reported []error
	compile := func(string) (Condition, error) { return flagCondition{}, nil }
	sub, err := schema.BindEnablement(compile, OnEnablementError(func(err error) { reported = append(reported, err) }))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer sub.Unsubscribe()

	open, _ := schema.Field("gate.open")
	fault, _ := schema.Field("gate.fault")
	delay, _ := schema.Field("gate.delay")
	if err := open.SetValue(true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !delay.Enabled() || len(reported) != 0 {
		t.Fatalf("enabled=%v reported=%v", delay.Enabled(), reported)
	}

	if err := fault.SetValue(true); err != nil {
		t.Fatalf("set fault: %v", err)
	}
	if len(reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(reported))
	}
	var fe *FieldError
	if !errors.As(reported[0], &fe) || fe.Key != "gate.delay" {
		t.Fatalf("error = %v, want FieldError for gate.delay", reported[0])
	}
	if !delay.Enabled() {
		t.Fatalf("failed evaluation should keep the current enablement")
	}
}
