package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordKeys(t *testing.T) {
	assert.Equal(t, "proxy_account:alice", ProxyAccountKey("alice"))
	assert.Equal(t, "market", MarketKey())
	assert.Equal(t, "bet:alice:1700000000", BetKey("alice", 1700000000))

	// Distinct timestamps give distinct keys for the same owner
	assert.NotEqual(t, BetKey("alice", 1), BetKey("alice", 2))
	// Distinct owners never collide
	assert.NotEqual(t, BetKey("alice", 1), BetKey("bob", 1))
}

func TestDerivationNonceStable(t *testing.T) {
	a := DerivationNonce(ProxyAccountKey("alice"))
	b := DerivationNonce(ProxyAccountKey("alice"))
	assert.Equal(t, a, b)
}
