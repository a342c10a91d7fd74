package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBetValidation(t *testing.T) {
	now := time.Unix(1700000000, 0)
	future := now.Unix() + 10

	// Scenario C: zero amount never creates a bet
	_, err := NewBet("alice", 1, 150, future, 0, now)
	assert.ErrorIs(t, err, ErrInvalidBetAmount)

	_, err = NewBet("alice", 1, 0, future, 500, now)
	assert.ErrorIs(t, err, ErrInvalidOdds)

	// Expiry must be strictly in the future; exactly now is rejected too
	_, err = NewBet("alice", 1, 150, now.Unix(), 500, now)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	_, err = NewBet("alice", 1, 150, now.Unix()-1, 500, now)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	bet, err := NewBet("alice", 1, 150, future, 500, now)
	require.NoError(t, err)
	assert.Equal(t, BetKey("alice", 1), bet.ID)
	assert.Equal(t, "alice", bet.User)
	assert.Equal(t, MarketKey(), bet.Market)
	assert.Equal(t, ProxyAccountKey("alice"), bet.ProxyAccount)
	assert.True(t, bet.IsActive)
}

func TestWinningsQuantization(t *testing.T) {
	now := time.Unix(1700000000, 0)

	bet, err := NewBet("alice", 1, 150, now.Unix()+10, 500, now)
	require.NoError(t, err)
	winnings, err := bet.Winnings()
	require.NoError(t, err)
	assert.Equal(t, uint64(750), winnings)

	// Division truncates toward zero: 333*50/100 = 166.5 -> 166
	bet, err = NewBet("alice", 2, 50, now.Unix()+10, 333, now)
	require.NoError(t, err)
	winnings, err = bet.Winnings()
	require.NoError(t, err)
	assert.Equal(t, uint64(166), winnings)

	// The intermediate product is overflow-checked before the division
	bet, err = NewBet("alice", 3, math.MaxUint64, now.Unix()+10, 2, now)
	require.NoError(t, err)
	_, err = bet.Winnings()
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestSettleStateMachine(t *testing.T) {
	now := time.Unix(1700000000, 0)
	expiry := now.Unix() + 10

	bet, err := NewBet("alice", 1, 150, expiry, 500, now)
	require.NoError(t, err)

	// Before expiry settlement always fails, with no state change
	_, err = bet.Settle(now, true)
	assert.ErrorIs(t, err, ErrBetNotExpired)
	assert.True(t, bet.IsActive)
	_, err = bet.Settle(time.Unix(expiry-1, 0), false)
	assert.ErrorIs(t, err, ErrBetNotExpired)
	assert.True(t, bet.IsActive)

	// Exactly at expiry is eligible
	winnings, err := bet.Settle(time.Unix(expiry, 0), true)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), winnings)
	assert.False(t, bet.IsActive)

	// The transition happens exactly once
	_, err = bet.Settle(time.Unix(expiry+100, 0), true)
	assert.ErrorIs(t, err, ErrBetNotActive)
}

func TestSettleLost(t *testing.T) {
	now := time.Unix(1700000000, 0)
	bet, err := NewBet("alice", 1, 150, now.Unix()+10, 500, now)
	require.NoError(t, err)

	winnings, err := bet.Settle(time.Unix(now.Unix()+10, 0), false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), winnings)
	assert.False(t, bet.IsActive)
}

func TestSettleWinOverflowLeavesBetActive(t *testing.T) {
	now := time.Unix(1700000000, 0)
	bet, err := NewBet("alice", 1, math.MaxUint64, now.Unix()+10, 2, now)
	require.NoError(t, err)

	_, err = bet.Settle(time.Unix(now.Unix()+10, 0), true)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
	assert.True(t, bet.IsActive)
}
