package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/goliatone/go-fieldset/pkg/validation"
)

func comPortField(t *testing.T) *Field {
	t.Helper()
	f, err := NewField("serial.port", KindDropdown,
		WithLabel("Port"),
		WithChoices(
			NewOption("COM1", "COM1"),
			NewOption("COM2", "COM2"),
			NewOption("COM3", "COM3"),
		),
	)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	return f
}

func TestDropdownMembership(t *testing.T) {
	f := comPortField(t)
	if got := f.Value().String(); got != "COM1" {
		t.Fatalf("expected first option as default, got %q", got)
	}

	if err := f.SetValue("COM2"); err != nil {
		t.Fatalf("set COM2: %v", err)
	}
	if got := f.Value().String(); got != "COM2" {
		t.Fatalf("expected COM2, got %q", got)
	}

	err := f.SetValue("COM9")
	if !errors.Is(err, ErrInvalidFieldValue) {
		t.Fatalf("expected ErrInvalidFieldValue, got %v", err)
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Key != "serial.port" {
		t.Fatalf("expected FieldError for serial.port, got %#v", err)
	}
	if got := f.Value().String(); got != "COM2" {
		t.Fatalf("rejected write changed value to %q", got)
	}
}

func TestCheckboxCoercion(t *testing.T) {
	f := MustField("printing.auto", KindCheckbox, WithLabel("Auto print"))

	calls := 0
	f.Subscribe(func(Change) { calls++ })

	if err := f.SetValue("true"); err != nil {
		t.Fatalf("set \"true\": %v", err)
	}
	if f.Value().Shape() != ShapeBool || !f.Value().Bool() {
		t.Fatalf("expected bool true, got %#v", f.Value())
	}
	if err := f.SetValue(true); err != nil {
		t.Fatalf("set true: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one notification, got %d", calls)
	}

	if err := f.SetValue("maybe"); !errors.Is(err, ErrInvalidFieldValue) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if !f.Value().Bool() {
		t.Fatalf("rejected write changed value")
	}
}

func TestSetValueNotifiesOncePerChange(t *testing.T) {
	f := MustField("company.name", KindText)

	var changes []Change
	sub := f.Subscribe(func(c Change) { changes = append(changes, c) })

	for _, v := range []string{"Acme", "Acme", "Acme Ltd"} {
		if err := f.SetValue(v); err != nil {
			t.Fatalf("set %q: %v", v, err)
		}
	}

	want := []Change{
		{Key: "company.name", Kind: KindText, OldValue: StringValue(""), NewValue: StringValue("Acme")},
		{Key: "company.name", Kind: KindText, OldValue: StringValue("Acme"), NewValue: StringValue("Acme Ltd")},
	}
	if diff := cmp.Diff(want, changes, cmp.AllowUnexported(Value{})); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	_ = f.SetValue("Other")
	if len(changes) != 2 {
		t.Fatalf("observer ran after unsubscribe")
	}
}

func TestObserverMayWriteBackWithoutLooping(t *testing.T) {
	f := MustField("weighing.max", KindNumber, WithDefault(100))

	calls := 0
	f.Subscribe(func(c Change) {
		calls++
		// Echo the same value, as a control refresh would.
		if err := f.SetValue(c.NewValue.String()); err != nil {
			t.Errorf("echo: %v", err)
		}
	})
	if err := f.SetValue("250"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single notification, got %d", calls)
	}
}

func TestShapeInvariantAcrossWrites(t *testing.T) {
	fields := []*Field{
		MustField("text", KindText),
		MustField("password", KindPassword),
		MustField("number", KindNumber),
		comPortField(t),
		MustField("checkbox", KindCheckbox),
		MustField("file", KindFile, WithFileFilter("*.log")),
		MustField("color", KindColor),
	}
	inputs := []any{"", " 42 ", "abc", "COM3", "yes", true, 3.5, nil, []string{"x"}, "#FFF", map[string]any{}}

	for _, f := range fields {
		for _, in := range inputs {
			_ = f.SetValue(in)
			if got, want := f.Value().Shape(), ExpectedShape(f.Kind()); got != want {
				t.Fatalf("%s after %#v: shape %s, want %s", f.Key(), in, got, want)
			}
		}
	}
}

func TestNumberCoercion(t *testing.T) {
	f := MustField("weighing.capacity", KindNumber)
	if got := f.Value().String(); got != "0" {
		t.Fatalf("expected zero default, got %q", got)
	}

	cases := []struct {
		in      any
		want    string
		wantErr bool
	}{
		{in: " 1.50 ", want: "1.50"},
		{in: -3, want: "-3"},
		{in: 2.25, want: "2.25"},
		{in: "", wantErr: true},
		{in: "1e", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: true, wantErr: true},
	}
	for _, tc := range cases {
		err := f.SetValue(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidFieldValue) {
				t.Fatalf("%#v: expected rejection, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%#v: %v", tc.in, err)
		}
		if got := f.Value().String(); got != tc.want {
			t.Fatalf("%#v: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestColorCoercion(t *testing.T) {
	f := MustField("appearance.accent", KindColor, WithDefault("#336699"))

	for in, want := range map[string]string{
		"#FFF":    "#ffffff",
		"00ff00":  "#00ff00",
		"#AbCdEf": "#abcdef",
	} {
		if err := f.SetValue(in); err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got := f.Value().String(); got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}

	if err := f.SetValue(colorful.Color{R: 1, G: 0, B: 0}); err != nil {
		t.Fatalf("colorful value: %v", err)
	}
	if got := f.Value().String(); got != "#ff0000" {
		t.Fatalf("expected #ff0000, got %q", got)
	}

	for _, bad := range []string{"", "#12345g", "red", "#1234"} {
		if err := f.SetValue(bad); !errors.Is(err, ErrInvalidFieldValue) {
			t.Fatalf("%q: expected rejection, got %v", bad, err)
		}
	}
}

func TestRequiredTextValidation(t *testing.T) {
	f := MustField("company.name", KindText, WithLabel("Company"), WithRequired(true))

	if res := f.Validate(); res.Valid {
		t.Fatalf("expected blank required field to be invalid")
	}
	if err := f.SetValue("Some value"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if res := f.Validate(); !res.Valid {
		t.Fatalf("expected valid, got %q", res.Message)
	}
}

func TestValidateNumberBounds(t *testing.T) {
	f := MustField("weighing.tare", KindNumber,
		WithLabel("Tare"),
		WithDefault("10"),
		WithBounds(validation.WeightBounds),
	)
	if res := f.Validate(); !res.Valid {
		t.Fatalf("expected valid, got %q", res.Message)
	}
	_ = f.SetValue("0")
	res := f.Validate()
	if res.Valid || res.Message != "Tare must be greater than 0" {
		t.Fatalf("unexpected result %#v", res)
	}
	_ = f.SetValue("100001")
	if res := f.Validate(); res.Valid {
		t.Fatalf("expected upper bound failure")
	}
}

func TestValidateDomainValidator(t *testing.T) {
	f := MustField("vehicle.default", KindText, WithDomainValidator("vehicle"))
	if res := f.Validate(); !res.Valid {
		t.Fatalf("blank optional field should pass, got %q", res.Message)
	}
	_ = f.SetValue("AB")
	if res := f.Validate(); res.Valid {
		t.Fatalf("expected vehicle validation failure")
	}
	_ = f.SetValue(" ka 01 ab 1234 ")
	if res := f.Validate(); !res.Valid {
		t.Fatalf("expected valid vehicle number, got %q", res.Message)
	}
}

func TestResetRestoresDefault(t *testing.T) {
	f := MustField("camera.enabled", KindCheckbox, WithDefault("yes"))
	_ = f.SetValue(false)

	calls := 0
	f.Subscribe(func(Change) { calls++ })
	if err := f.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !f.Value().Bool() || calls != 1 {
		t.Fatalf("expected default restored with one notification, value=%v calls=%d", f.Value(), calls)
	}
	if err := f.Reset(); err != nil || calls != 1 {
		t.Fatalf("second reset should be silent, calls=%d err=%v", calls, err)
	}
}

func TestNewFieldDefinitionErrors(t *testing.T) {
	cases := map[string]struct {
		key  string
		kind FieldKind
		opts []FieldOption
		want error
	}{
		"empty key":            {key: " ", kind: KindText, want: ErrInvalidDefinition},
		"unknown kind":         {key: "x", kind: FieldKind("slider"), want: ErrUnknownFieldKind},
		"dropdown no options":  {key: "x", kind: KindDropdown, want: ErrInvalidDefinition},
		"options on text":      {key: "x", kind: KindText, opts: []FieldOption{WithChoices(NewOption("a", "a"))}, want: ErrInvalidDefinition},
		"duplicate options":    {key: "x", kind: KindDropdown, opts: []FieldOption{WithChoices(NewOption("a", 1), NewOption("b", "1"))}, want: ErrInvalidDefinition},
		"filter on text":       {key: "x", kind: KindText, opts: []FieldOption{WithFileFilter("*.txt")}, want: ErrInvalidDefinition},
		"checkbox text on num": {key: "x", kind: KindNumber, opts: []FieldOption{WithCheckboxText("on")}, want: ErrInvalidDefinition},
		"bounds on text":       {key: "x", kind: KindText, opts: []FieldOption{WithBounds(validation.Bounds{Min: validation.Limit(1)})}, want: ErrInvalidDefinition},
		"unknown validator":    {key: "x", kind: KindText, opts: []FieldOption{WithDomainValidator("iban")}, want: ErrInvalidDefinition},
		"bad default":          {key: "x", kind: KindNumber, opts: []FieldOption{WithDefault("heavy")}, want: ErrInvalidDefinition},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewField(tc.key, tc.kind, tc.opts...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestKindPresenceDefaults(t *testing.T) {
	file := MustField("camera.dir", KindFile)
	if file.FileFilter() != "*" {
		t.Fatalf("expected default file filter, got %q", file.FileFilter())
	}
	box := MustField("camera.enabled", KindCheckbox, WithLabel("Enable camera"))
	if box.CheckboxText() != "Enable camera" {
		t.Fatalf("expected checkbox text to default to label, got %q", box.CheckboxText())
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Dropdown ")
	if err != nil || kind != KindDropdown {
		t.Fatalf("expected dropdown, got %q (%v)", kind, err)
	}
	if _, err := ParseKind("slider"); !errors.Is(err, ErrUnknownFieldKind) {
		t.Fatalf("expected ErrUnknownFieldKind, got %v", err)
	}
	for _, k := range Kinds() {
		if !k.Known() {
			t.Fatalf("kind %q missing from dispatch table", k)
		}
	}
}
