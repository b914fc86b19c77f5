package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openlotto/lottery-platform-poc/internal/bet-service/dto"
	"github.com/openlotto/lottery-platform-poc/internal/lottery"
	"github.com/openlotto/lottery-platform-poc/pkg/contracts/events"
)

type fakeRepo struct {
	created   []*lottery.Bet
	createErr error
	bets      map[string]lottery.Bet
}

func (f *fakeRepo) Create(_ context.Context, b *lottery.Bet) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, b)
	return "bet-1", nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (lottery.Bet, error) {
	b, ok := f.bets[id]
	if !ok {
		return lottery.Bet{}, sql.ErrNoRows
	}
	return b, nil
}

type fakePayments struct {
	verified   bool
	err        error
	lastAmount decimal.Decimal
}

func (f *fakePayments) Verify(_ context.Context, _, _ string, amount decimal.Decimal) (bool, error) {
	f.lastAmount = amount
	return f.verified, f.err
}

type fakePublisher struct {
	published []events.BetPlaced
}

func (f *fakePublisher) PublishBetPlaced(_ context.Context, e events.BetPlaced) error {
	f.published = append(f.published, e)
	return nil
}

func newTestServer(t *testing.T, repo *fakeRepo, pay *fakePayments, pub *fakePublisher, localHour int) *Server {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	s := NewServer(zap.NewNop(), repo, pay, pub, loc)
	s.now = func() time.Time {
		return time.Date(2025, 5, 10, localHour, 0, 0, 0, loc)
	}
	return s
}

func placeBetBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(dto.PlaceBetRequest{
		WalletAddress:     "0x1111111111111111111111111111111111111111",
		Numbers:           "12,34",
		AmountPerPosition: decimal.NewFromFloat(1.0),
		TxHash:            "0xdeadbeef",
	})
	require.NoError(t, err)
	return b
}

func TestPlaceBetAccepted(t *testing.T) {
	repo := &fakeRepo{}
	pay := &fakePayments{verified: true}
	pub := &fakePublisher{}
	s := newTestServer(t, repo, pay, pub, 10)

	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(placeBetBody(t)))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.PlaceBetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bet-1", resp.BetID)
	assert.Equal(t, "2025-05-10", resp.LotteryDate)
	assert.Equal(t, 2, resp.Positions)
	// 1.0 × 2 + 0.10 = 2.10
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromFloat(2.1)))
	assert.Equal(t, "ACCEPTED", resp.Status)

	// aposta persistida com os números validados e a data resolvida
	require.Len(t, repo.created, 1)
	assert.Equal(t, lottery.Numbers{"12", "34"}, repo.created[0].Numbers)
	assert.Equal(t, "2025-05-10", repo.created[0].LotteryDate)

	// custo total repassado ao verificador de pagamento
	assert.True(t, pay.lastAmount.Equal(decimal.NewFromFloat(2.1)))

	// evento bet_placed emitido
	require.Len(t, pub.published, 1)
	assert.Equal(t, "bet-1", pub.published[0].BetID)
	assert.Equal(t, "2025-05-10", pub.published[0].LotteryDate)
}

func TestPlaceBetAfterReopenGoesToTomorrow(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestServer(t, repo, &fakePayments{verified: true}, &fakePublisher{}, 21)

	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(placeBetBody(t)))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "2025-05-11", repo.created[0].LotteryDate)
}

func TestPlaceBetWindowClosed(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestServer(t, repo, &fakePayments{verified: true}, &fakePublisher{}, 15)

	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(placeBetBody(t)))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "betting is closed")
	assert.Empty(t, repo.created)
}

func TestPlaceBetMissingFields(t *testing.T) {
	s := newTestServer(t, &fakeRepo{}, &fakePayments{verified: true}, &fakePublisher{}, 10)

	body, _ := json.Marshal(map[string]any{"walletAddress": "0xabc"})
	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required fields")
}

func TestPlaceBetInvalidNumbers(t *testing.T) {
	s := newTestServer(t, &fakeRepo{}, &fakePayments{verified: true}, &fakePublisher{}, 10)

	body, _ := json.Marshal(dto.PlaceBetRequest{
		WalletAddress:     "0xabc",
		Numbers:           "1,234",
		AmountPerPosition: decimal.NewFromInt(1),
		TxHash:            "0xdeadbeef",
	})
	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid numbers")
}

func TestPlaceBetPaymentNotVerified(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestServer(t, repo, &fakePayments{verified: false}, &fakePublisher{}, 10)

	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(placeBetBody(t)))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Empty(t, repo.created)
}

func TestPlaceBetStoreUnavailable(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("connection refused")}
	s := newTestServer(t, repo, &fakePayments{verified: true}, &fakePublisher{}, 10)

	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(placeBetBody(t)))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetBetNotFound(t *testing.T) {
	s := newTestServer(t, &fakeRepo{bets: map[string]lottery.Bet{}}, &fakePayments{}, &fakePublisher{}, 10)

	req := httptest.NewRequest(http.MethodGet, "/bets/nope", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLotteryDateEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeRepo{}, &fakePayments{}, &fakePublisher{}, 10)

	req := httptest.NewRequest(http.MethodGet, "/lottery-date", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.LotteryDateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Open)
	assert.Equal(t, "2025-05-10", resp.LotteryDate)

	closed := newTestServer(t, &fakeRepo{}, &fakePayments{}, &fakePublisher{}, 16)
	rec = httptest.NewRecorder()
	closed.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lottery-date", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp = dto.LotteryDateResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Open)
	assert.Empty(t, resp.LotteryDate)
}
