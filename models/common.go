package models

import (
	"fmt"
	"hash/fnv"
)

// Record keys are derived from a purpose prefix plus the identifying fields,
// the same way the on-chain program derived account addresses from seeds.
// Any party can recompute a key; inserting a key that is already live fails
// as ErrRecordAlreadyExists.
const (
	ProxySeedPrefix  = "proxy_account"
	MarketSeedPrefix = "market"
	BetSeedPrefix    = "bet"
)

func ProxyAccountKey(owner string) string {
	return fmt.Sprintf("%s:%s", ProxySeedPrefix, owner)
}

// MarketKey is the fixed key of the singleton market record.
func MarketKey() string {
	return MarketSeedPrefix
}

// BetKey includes the caller-supplied timestamp so one owner can hold
// multiple concurrent bets.
func BetKey(owner string, timestamp int64) string {
	return fmt.Sprintf("%s:%s:%d", BetSeedPrefix, owner, timestamp)
}

// DerivationNonce fixes a record's key for later verification.
func DerivationNonce(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}
