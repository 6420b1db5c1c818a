package validation

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRequired(t *testing.T) {
	if res := Required("Name", "  "); res.Valid || res.Message != "Name is required" {
		t.Fatalf("unexpected %#v", res)
	}
	if res := Required("", "x"); !res.Valid || res.Message != SuccessMessage {
		t.Fatalf("unexpected %#v", res)
	}
}

func TestNumber(t *testing.T) {
	bounds := Bounds{Min: Limit(1), Max: Limit(10), ExclusiveMax: true}
	cases := []struct {
		in   string
		want Result
	}{
		{in: "5", want: Success()},
		{in: " 1 ", want: Success()},
		{in: "0.5", want: Failure("Count must be at least 1")},
		{in: "10", want: Failure("Count must be less than 10")},
		{in: "x", want: Failure("Count must be a number")},
		{in: "Inf", want: Failure("Count must be a number")},
		{in: "", want: Failure("Count must be a number")},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, Number("Count", tc.in, bounds)); diff != "" {
			t.Fatalf("%q (-want +got):\n%s", tc.in, diff)
		}
	}
	if res := Number("", "-1e3", Bounds{}); !res.Valid {
		t.Fatalf("unbounded number should pass: %q", res.Message)
	}
}

func TestOneOf(t *testing.T) {
	allowed := []string{"COM1", "COM2"}
	if !OneOf("Port", "COM2", allowed).Valid {
		t.Fatalf("expected member to pass")
	}
	if res := OneOf("Port", "COM9", allowed); res.Valid {
		t.Fatalf("expected non-member to fail")
	}
}

func TestText(t *testing.T) {
	minLen, maxLen := 2, 4
	rules := TextRules{MinLength: &minLen, MaxLength: &maxLen, Pattern: regexp.MustCompile(`^[a-z]+$`)}

	if !Text("Code", "", rules).Valid {
		t.Fatalf("blank value should be left to Required")
	}
	for in, want := range map[string]string{
		"a":     "Code must be at least 2 characters",
		"abcde": "Code must be at most 4 characters",
		"AB":    "Code has an invalid format",
		"abc":   SuccessMessage,
	} {
		if got := Text("Code", in, rules).Message; got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}
}

func TestFirstAndReport(t *testing.T) {
	ran := false
	res := First(
		func() Result { return Success() },
		func() Result { return Failure("first") },
		func() Result { ran = true; return Failure("second") },
	)
	if res.Message != "first" || ran {
		t.Fatalf("expected lazy first failure, got %#v ran=%v", res, ran)
	}

	report := Report{Valid: true}
	report.Add("a", "A", Success())
	report.Add("b", "B", Failure("bad"))
	report.Add("b", "B", Failure("worse"))
	if report.Valid {
		t.Fatalf("report should be invalid")
	}
	want := map[string][]string{"b": {"bad", "worse"}}
	if diff := cmp.Diff(want, report.ByKey()); diff != "" {
		t.Fatalf("by key (-want +got):\n%s", diff)
	}
	if Failure("  ").Message != "Invalid value" {
		t.Fatalf("expected fallback message")
	}
}
