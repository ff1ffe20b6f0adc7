package diagnostics

import "testing"

func TestEveryCodeHasTemplate(t *testing.T) {
	for _, code := range AllCodes() {
		if _, ok := Template(code); !ok {
			t.Errorf("missing message template for %s", code)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		tmpl string
		args []string
		want string
	}{
		{"plain", nil, "plain"},
		{"a {0} b", []string{"x"}, "a x b"},
		{"{1}-{0}", []string{"x", "y"}, "y-x"},
		{"{0}{0}", []string{"z"}, "zz"},
		{"missing {2}", []string{"x"}, "missing {2}"},
		{"brace { alone", nil, "brace { alone"},
	}

	for _, tc := range tests {
		if got := Format(tc.tmpl, tc.args...); got != tc.want {
			t.Errorf("Format(%q, %v) = %q, want %q", tc.tmpl, tc.args, got, tc.want)
		}
	}
}

func TestDiagnosticString(t *testing.T) {
	d := New(UnrecognizedCharacter, NewRange(0, 3, 4), "$")
	want := "I don't understand this character '$'."
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCombineRanges(t *testing.T) {
	got := Combine(NewRange(2, 5, 7), NewRange(2, 1, 3))
	if got != NewRange(2, 1, 7) {
		t.Errorf("Combine = %v, want (2,1)-(2,7)", got)
	}
}

func TestCombineRangesAcrossLinesPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when combining ranges from different lines")
		}
	}()
	Combine(NewRange(0, 0, 1), NewRange(1, 0, 1))
}

func TestRuntimeCodes(t *testing.T) {
	if UnexpectedVoid_ExpectingValue.IsRuntime() {
		t.Error("binder code reported as runtime")
	}
	if !CannotDivideByZero.IsRuntime() {
		t.Error("CannotDivideByZero should be a runtime code")
	}
}
