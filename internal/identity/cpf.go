// Package identity holds CPF handling for user registration and login.
package identity

// NormalizeCPF strips every non-digit character so formatted input like
// "529.982.247-25" and the bare digit string compare equal.
func NormalizeCPF(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			out = append(out, raw[i])
		}
	}
	return string(out)
}

// IsValidCPF reports whether raw is a well-formed CPF: 11 digits, not a
// repeated-digit sequence, and with both check digits matching the mod-11
// checksum.
func IsValidCPF(raw string) bool {
	cpf := NormalizeCPF(raw)
	if len(cpf) != 11 {
		return false
	}
	same := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}
	d1 := checkDigit(cpf[:9], 10)
	d2 := checkDigit(cpf[:10], 11)
	return int(cpf[9]-'0') == d1 && int(cpf[10]-'0') == d2
}

func checkDigit(base string, factor int) int {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (factor - i)
	}
	mod := sum % 11
	if mod < 2 {
		return 0
	}
	return 11 - mod
}
