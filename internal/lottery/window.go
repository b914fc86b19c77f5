package lottery

import "time"

// DateLayout é o formato textual de uma data de loteria.
const DateLayout = "2006-01-02"

// Janela de apostas no horário local configurado:
// - antes das 14h: apostas abertas para a data de hoje
// - entre 14h e 20h: fechado (intervalo para apuração e publicação)
// - a partir das 20h: apostas abertas para a data de amanhã
const (
	betCloseHour  = 14
	betReopenHour = 20
)

// ResolveDate decide, a partir do instante atual e da timezone da loteria,
// para qual data de sorteio uma nova aposta seria aceita.
// Retorna ErrWindowClosed quando a janela está fechada. Função pura.
func ResolveDate(now time.Time, loc *time.Location) (string, error) {
	local := now.In(loc)
	switch hour := local.Hour(); {
	case hour < betCloseHour:
		return local.Format(DateLayout), nil
	case hour >= betReopenHour:
		return local.AddDate(0, 0, 1).Format(DateLayout), nil
	default:
		return "", ErrWindowClosed
	}
}
