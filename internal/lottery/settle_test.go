package lottery

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNumbers(t *testing.T, raw string) Numbers {
	t.Helper()
	n, err := ParseNumbers(raw)
	require.NoError(t, err)
	return n
}

func testResult(t *testing.T) Result {
	return Result{
		LotteryDate:    "2025-05-10",
		WinningNumbers: mustNumbers(t, "12,34,56,78,90"),
	}
}

func TestSettlePayout(t *testing.T) {
	res := testResult(t)
	bets := []Bet{{
		ID:                "b1",
		WalletAddress:     "0xabc",
		Numbers:           mustNumbers(t, "12,34"),
		AmountPerPosition: decimal.NewFromFloat(1.0),
	}}

	winners := Settle(res, bets)
	require.Len(t, winners, 1)
	assert.Equal(t, "0xabc", winners[0].WalletAddress)
	assert.Equal(t, "2025-05-10", winners[0].LotteryDate)
	assert.Equal(t, 2, winners[0].Matches)
	// 2 acertos × 60 × 1.0 = 120
	assert.True(t, winners[0].Payout.Equal(decimal.NewFromInt(120)), "payout = %s", winners[0].Payout)
}

func TestSettleDuplicatePositionsCountIndependently(t *testing.T) {
	res := testResult(t)
	bets := []Bet{{
		ID:                "b1",
		WalletAddress:     "0xabc",
		Numbers:           mustNumbers(t, "12,12"),
		AmountPerPosition: decimal.NewFromFloat(0.5),
	}}

	winners := Settle(res, bets)
	require.Len(t, winners, 1)
	assert.Equal(t, 2, winners[0].Matches)
	// 2 × 60 × 0.5 = 60
	assert.True(t, winners[0].Payout.Equal(decimal.NewFromInt(60)))
}

func TestSettleOnlyMatchingBetsWin(t *testing.T) {
	res := testResult(t)
	bets := []Bet{
		{ID: "b1", WalletAddress: "0xwin", Numbers: mustNumbers(t, "56"), AmountPerPosition: decimal.NewFromInt(2)},
		{ID: "b2", WalletAddress: "0xlose", Numbers: mustNumbers(t, "11,22"), AmountPerPosition: decimal.NewFromInt(2)},
	}

	winners := Settle(res, bets)
	require.Len(t, winners, 1)
	assert.Equal(t, "0xwin", winners[0].WalletAddress)
	assert.Equal(t, 1, winners[0].Matches)
	assert.True(t, winners[0].Payout.Equal(decimal.NewFromInt(120)))
}

func TestSettleZeroWinnersIsEmptyNotNilError(t *testing.T) {
	res := testResult(t)
	bets := []Bet{
		{ID: "b1", WalletAddress: "0xlose", Numbers: mustNumbers(t, "11"), AmountPerPosition: decimal.NewFromInt(1)},
	}

	winners := Settle(res, bets)
	assert.NotNil(t, winners)
	assert.Empty(t, winners)
}

func TestSettleWithoutResultIsNoop(t *testing.T) {
	bets := []Bet{
		{ID: "b1", WalletAddress: "0xabc", Numbers: mustNumbers(t, "12"), AmountPerPosition: decimal.NewFromInt(1)},
	}

	winners := Settle(Result{LotteryDate: "2025-05-10"}, bets)
	assert.Nil(t, winners)
}

func TestSettleIsOrderIndependent(t *testing.T) {
	res := testResult(t)

	bets := []Bet{
		{ID: "b1", WalletAddress: "0xa", Numbers: mustNumbers(t, "12,34"), AmountPerPosition: decimal.NewFromInt(1)},
		{ID: "b2", WalletAddress: "0xb", Numbers: mustNumbers(t, "90"), AmountPerPosition: decimal.NewFromInt(3)},
		{ID: "b3", WalletAddress: "0xc", Numbers: mustNumbers(t, "11,22"), AmountPerPosition: decimal.NewFromInt(5)},
		{ID: "b4", WalletAddress: "0xd", Numbers: mustNumbers(t, "12,34,56,78,90"), AmountPerPosition: decimal.NewFromFloat(0.25)},
	}

	base := Settle(res, bets)

	shuffled := make([]Bet, len(bets))
	copy(shuffled, bets)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Settle(res, shuffled)
		assert.ElementsMatch(t, base, got)
	}
}

func TestSettleRepeatedWinningNumberCountsOncePerPosition(t *testing.T) {
	// resultado com repetição: tratado como conjunto na conferência
	res := Result{
		LotteryDate:    "2025-05-10",
		WinningNumbers: mustNumbers(t, "12,12,34,56,78"),
	}
	bets := []Bet{{
		ID:                "b1",
		WalletAddress:     "0xabc",
		Numbers:           mustNumbers(t, "12"),
		AmountPerPosition: decimal.NewFromInt(1),
	}}

	winners := Settle(res, bets)
	require.Len(t, winners, 1)
	assert.Equal(t, 1, winners[0].Matches)
	assert.True(t, winners[0].Payout.Equal(decimal.NewFromInt(60)))
}

func TestSettleOutputFollowsBetOrder(t *testing.T) {
	res := testResult(t)
	bets := []Bet{
		{ID: "b1", WalletAddress: "0xa", Numbers: mustNumbers(t, "12"), AmountPerPosition: decimal.NewFromInt(1)},
		{ID: "b2", WalletAddress: "0xb", Numbers: mustNumbers(t, "34"), AmountPerPosition: decimal.NewFromInt(1)},
		{ID: "b3", WalletAddress: "0xc", Numbers: mustNumbers(t, "56"), AmountPerPosition: decimal.NewFromInt(1)},
	}

	winners := Settle(res, bets)
	require.Len(t, winners, 3)
	got := []string{winners[0].WalletAddress, winners[1].WalletAddress, winners[2].WalletAddress}
	assert.True(t, sort.StringsAreSorted(got))
}

func TestCountMatches(t *testing.T) {
	winning := mustNumbers(t, "12,34,56,78,90")

	assert.Equal(t, 0, CountMatches(mustNumbers(t, "11"), winning))
	assert.Equal(t, 1, CountMatches(mustNumbers(t, "12"), winning))
	assert.Equal(t, 5, CountMatches(mustNumbers(t, "12,34,56,78,90"), winning))
	assert.Equal(t, 3, CountMatches(mustNumbers(t, "12,12,12"), winning))
}

func TestTotalCost(t *testing.T) {
	// 1.50 × 3 posições + taxa 0.10 = 4.60
	total := TotalCost(decimal.NewFromFloat(1.5), 3)
	assert.True(t, total.Equal(decimal.NewFromFloat(4.6)), "total = %s", total)
}
