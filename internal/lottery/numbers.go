package lottery

import (
	"fmt"
	"regexp"
	"strings"
)

// Numbers é a lista validada de posições de uma aposta (ou de um resultado).
// Cada posição é uma string de exatamente dois dígitos; repetições são
// permitidas na aposta. Construída uma única vez via ParseNumbers e
// consumida como valor tipado em todo o resto do sistema.
type Numbers []string

var numberPattern = regexp.MustCompile(`^[0-9]{2}$`)

// ParseNumbers valida uma lista separada por vírgula, ex: "12,34,56".
// Exige ao menos uma posição e exatamente dois dígitos por posição.
func ParseNumbers(raw string) (Numbers, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidNumbers)
	}

	parts := strings.Split(raw, ",")
	out := make(Numbers, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !numberPattern.MatchString(p) {
			return nil, fmt.Errorf("%w: %q must be exactly two digits", ErrInvalidNumbers, p)
		}
		out = append(out, p)
	}
	return out, nil
}

// String retorna a forma textual canônica, separada por vírgula.
func (n Numbers) String() string {
	return strings.Join(n, ",")
}

// ValidateWinningNumbers garante que um resultado tenha exatamente
// WinningNumbersCount posições.
func ValidateWinningNumbers(n Numbers) error {
	if len(n) != WinningNumbersCount {
		return fmt.Errorf("%w: result must have exactly %d numbers", ErrInvalidNumbers, WinningNumbersCount)
	}
	return nil
}
