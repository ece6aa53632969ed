package identity

import "testing"

func TestNormalizeCPF(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"529.982.247-25", "52998224725"},
		{"52998224725", "52998224725"},
		{" 529 982 247 25 ", "52998224725"},
		{"abc", ""},
	}
	for _, c := range cases {
		if got := NormalizeCPF(c.in); got != c.want {
			t.Errorf("NormalizeCPF(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsValidCPF(t *testing.T) {
	valid := []string{
		"52998224725",
		"529.982.247-25",
		"11144477735",
	}
	for _, cpf := range valid {
		if !IsValidCPF(cpf) {
			t.Errorf("IsValidCPF(%q) = false, want true", cpf)
		}
	}

	invalid := []string{
		"",
		"5299822472",    // too short
		"529982247255",  // too long
		"11111111111",   // repeated digits
		"00000000000",   // repeated digits
		"52998224724",   // bad second check digit
		"52998224735",   // bad first check digit
		"5299822472x",   // non-digit shrinks it below 11
	}
	for _, cpf := range invalid {
		if IsValidCPF(cpf) {
			t.Errorf("IsValidCPF(%q) = true, want false", cpf)
		}
	}
}
