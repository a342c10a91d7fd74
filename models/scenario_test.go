package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end ledger flows at the record level, mirroring the full
// operations without the storage layer.

func TestScenarioWonBet(t *testing.T) {
	now := time.Unix(1700000000, 0)
	proxy := NewProxyAccount("alice")
	market := NewMarket("authority")

	require.NoError(t, proxy.ApplyDeposit(1000))

	bet, err := NewBet("alice", now.Unix(), 150, now.Unix()+10, 500, now)
	require.NoError(t, err)
	require.NoError(t, proxy.DebitStake(500))
	assert.Equal(t, uint64(500), proxy.Balance)

	winnings, err := bet.Settle(time.Unix(now.Unix()+10, 0), true)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), winnings)

	require.NoError(t, proxy.CreditWinnings(winnings))
	require.NoError(t, market.RecordSettlement(bet.Amount, true))

	assert.Equal(t, uint64(1250), proxy.Balance)
	assert.Equal(t, uint64(500), market.TotalVolume)
	assert.Equal(t, uint64(0), market.TotalFees)
}

func TestScenarioLostBet(t *testing.T) {
	now := time.Unix(1700000000, 0)
	proxy := NewProxyAccount("alice")
	market := NewMarket("authority")

	require.NoError(t, proxy.ApplyDeposit(1000))

	bet, err := NewBet("alice", now.Unix(), 150, now.Unix()+10, 500, now)
	require.NoError(t, err)
	require.NoError(t, proxy.DebitStake(500))

	winnings, err := bet.Settle(time.Unix(now.Unix()+10, 0), false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), winnings)
	require.NoError(t, market.RecordSettlement(bet.Amount, false))

	// The escrow is never credited on a loss
	assert.Equal(t, uint64(500), proxy.Balance)
	assert.Equal(t, uint64(500), market.TotalVolume)
	assert.Equal(t, uint64(500), market.TotalFees)
}

func TestScenarioConcurrentBets(t *testing.T) {
	now := time.Unix(1700000000, 0)
	proxy := NewProxyAccount("alice")
	market := NewMarket("authority")

	require.NoError(t, proxy.ApplyDeposit(1000))

	first, err := NewBet("alice", 1, 150, now.Unix()+10, 300, now)
	require.NoError(t, err)
	require.NoError(t, proxy.DebitStake(300))
	second, err := NewBet("alice", 2, 200, now.Unix()+20, 400, now)
	require.NoError(t, err)
	require.NoError(t, proxy.DebitStake(400))

	// Same owner, distinct timestamps, distinct records
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, uint64(300), proxy.Balance)
	assert.Equal(t, uint64(2), proxy.TotalBets)

	// Settling one leaves the other untouched
	winnings, err := first.Settle(time.Unix(now.Unix()+10, 0), true)
	require.NoError(t, err)
	require.NoError(t, proxy.CreditWinnings(winnings))
	require.NoError(t, market.RecordSettlement(first.Amount, true))

	assert.False(t, first.IsActive)
	assert.True(t, second.IsActive)
	assert.Equal(t, uint64(300+450), proxy.Balance)
}

func TestConservation(t *testing.T) {
	now := time.Unix(1700000000, 0)
	proxy := NewProxyAccount("alice")
	market := NewMarket("authority")

	// Stakes locked in active bets count toward the total until settled
	total := func(locked uint64) uint64 { return proxy.Balance + market.TotalFees + locked }

	require.NoError(t, proxy.ApplyDeposit(1000))
	assert.Equal(t, uint64(1000), total(0))

	bet, err := NewBet("alice", 1, 100, now.Unix()+10, 600, now)
	require.NoError(t, err)
	require.NoError(t, proxy.DebitStake(600))
	assert.Equal(t, uint64(1000), total(600))

	// Odds of 100 pay the stake back exactly, conserving the total
	winnings, err := bet.Settle(time.Unix(now.Unix()+10, 0), true)
	require.NoError(t, err)
	require.NoError(t, proxy.CreditWinnings(winnings))
	require.NoError(t, market.RecordSettlement(bet.Amount, true))
	assert.Equal(t, uint64(1000), total(0))

	require.NoError(t, proxy.ApplyWithdrawal(250))
	assert.Equal(t, uint64(750), total(0))
}
