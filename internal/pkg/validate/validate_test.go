package validate

import "testing"

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":               true,
		"ann.lee@example.shop":  true,
		"":                      false,
		"no-at-sign":            false,
		"@example.com":          false,
		"ann@":                  false,
		"Ann <ann@example.com>": false,
		"ann @example.com":      false,
	}
	for input, want := range cases {
		if got := Email(input); got != want {
			t.Fatalf("Email(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestRequiredAndMinLength(t *testing.T) {
	if Required("   ") {
		t.Fatalf("blank value must not satisfy Required")
	}
	if !Required(" x ") {
		t.Fatalf("non-blank value must satisfy Required")
	}
	if MinLength("12345", 6) || !MinLength("123456", 6) {
		t.Fatalf("MinLength boundary is wrong")
	}
}
