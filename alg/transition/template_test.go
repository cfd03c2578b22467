package transition

import (
	"errors"
	"testing"
)

func TestParseFeatureToken(t *testing.T) {
	tests := []struct {
		str   string
		token FeatureToken
	}{
		{"l0:f", FeatureToken{Source: LAMBDA, Field: F_FORM}},
		{"b:p", FeatureToken{Source: BETA, Field: F_POS}},
		{"l-1:m", FeatureToken{Source: LAMBDA, Offset: -1, Field: F_LEMMA}},
		{"b+2:p", FeatureToken{Source: BETA, Offset: 2, Field: F_POS}},
		{"l0_hd:d", FeatureToken{Source: LAMBDA, Relation: R_HD, Field: F_DEPREL}},
		{"b0_lm:p", FeatureToken{Source: BETA, Relation: R_LM, Field: F_POS}},
		{"b0:ft1", FeatureToken{Source: BETA, Field: F_FEAT, FieldArg: 1}},
		{"l0:as0", FeatureToken{Source: LAMBDA, Field: F_ARG}},
		{"l0:an2", FeatureToken{Source: LAMBDA, Field: F_ARGN, FieldArg: 2}},
		// kept but never resolved
		{"l0_xx:p", FeatureToken{Source: LAMBDA, Relation: "xx", Field: F_POS}},
		{"l0:zz", FeatureToken{Source: LAMBDA, Field: "zz"}},
	}
	for _, test := range tests {
		token, err := ParseFeatureToken(test.str)
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.str, err)
			continue
		}
		if token != test.token {
			t.Errorf("%s: expected %+v got %+v", test.str, test.token, token)
		}
	}
}

func TestParseFeatureTokenErrors(t *testing.T) {
	for _, str := range []string{"", "l0", "l0:", "x0:p", "lx:p", "_hd:p", "l0:p:f"} {
		if _, err := ParseFeatureToken(str); !errors.Is(err, ErrBadToken) {
			t.Errorf("%q: expected ErrBadToken, got %v", str, err)
		}
	}
}

func TestFeatureTokenString(t *testing.T) {
	for _, str := range []string{"l0:f", "b-1_hd:p", "b+1_rs:d", "l0:ft2"} {
		token, err := ParseFeatureToken(str)
		if err != nil {
			t.Fatalf("%s: %v", str, err)
		}
		if token.String() != str {
			t.Errorf("Expected %s, got %s", str, token.String())
		}
	}
}

func TestParseFeatureTemplate(t *testing.T) {
	template, err := ParseFeatureTemplate("l0:p + b0:p + b1:f")
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(template.Tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(template.Tokens))
	}
	if template.String() != "l0:p+b0:p+b1:f" {
		t.Errorf("Unexpected template string %s", template)
	}
	if template.Tokens[2].Offset != 1 || template.Tokens[2].Field != F_FORM {
		t.Errorf("Unexpected third token %+v", template.Tokens[2])
	}
	if _, err := ParseFeatureTemplate("  "); err == nil {
		t.Error("Expected error on empty template")
	}
	if _, err := ParseFeatureTemplate("l0:p+q0:p"); err == nil {
		t.Error("Expected error on bad token")
	}
}
