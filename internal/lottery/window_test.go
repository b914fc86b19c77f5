package lottery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hour     int
		wantDate string
		wantErr  error
	}{
		{name: "madrugada aposta para hoje", hour: 0, wantDate: "2025-05-10"},
		{name: "13h ainda aberto para hoje", hour: 13, wantDate: "2025-05-10"},
		{name: "14h fecha a janela", hour: 14, wantErr: ErrWindowClosed},
		{name: "19h segue fechado", hour: 19, wantErr: ErrWindowClosed},
		{name: "20h reabre para amanhã", hour: 20, wantDate: "2025-05-11"},
		{name: "23h aposta para amanhã", hour: 23, wantDate: "2025-05-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2025, 5, 10, tt.hour, 30, 0, 0, loc)
			date, err := ResolveDate(now, loc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, date)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, date)
		})
	}
}

func TestResolveDateUsesConfiguredTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	// 08:00 UTC = 15:00 em Ho Chi Minh (UTC+7): fechado localmente,
	// mesmo com a hora UTC dentro da faixa aberta.
	now := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	_, err = ResolveDate(now, loc)
	assert.ErrorIs(t, err, ErrWindowClosed)

	// 14:00 UTC = 21:00 local: aberto para o dia seguinte.
	now = time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC)
	date, err := ResolveDate(now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-11", date)
}

func TestResolveDateRollsOverMonthEnd(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	now := time.Date(2025, 4, 30, 21, 0, 0, 0, loc)
	date, err := ResolveDate(now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", date)
}
