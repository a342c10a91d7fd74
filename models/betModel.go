package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bet is one wager. The stake is already debited from the proxy account
// when the record exists, so an active bet's amount is never double-counted
// in the escrow balance. A bet is active from creation until settlement and
// the transition happens exactly once.
type Bet struct {
	ID              string             `bson:"_id" json:"id"`
	User            string             `bson:"user" json:"user"`
	Market          string             `bson:"market" json:"market"`
	ProxyAccount    string             `bson:"proxyaccount" json:"proxyaccount"`
	Timestamp       int64              `bson:"timestamp" json:"timestamp"`
	Odds            uint64             `bson:"odds" json:"odds"` // percentage payout multiplier
	ExpiryTime      int64              `bson:"expirytime" json:"expirytime"`
	Amount          uint64             `bson:"amount" json:"amount"`
	IsActive        bool               `bson:"isactive" json:"isactive"`
	DerivationNonce uint32             `bson:"derivationnonce" json:"derivationnonce"`
	CreateDate      primitive.DateTime `bson:"createdate" json:"createdate"`
}

// NewBet validates the wager fields against the current time snapshot.
// Expiry must be strictly in the future; a past expiry is an invalid
// timestamp, not an expired bet.
func NewBet(owner string, timestamp int64, odds uint64, expiryTime int64, amount uint64, now time.Time) (*Bet, error) {
	if amount == 0 {
		return nil, ErrInvalidBetAmount
	}
	if odds == 0 {
		return nil, ErrInvalidOdds
	}
	if expiryTime <= now.Unix() {
		return nil, ErrInvalidTimestamp
	}
	key := BetKey(owner, timestamp)
	return &Bet{
		ID:              key,
		User:            owner,
		Market:          MarketKey(),
		ProxyAccount:    ProxyAccountKey(owner),
		Timestamp:       timestamp,
		Odds:            odds,
		ExpiryTime:      expiryTime,
		Amount:          amount,
		IsActive:        true,
		DerivationNonce: DerivationNonce(key),
		CreateDate:      primitive.NewDateTimeFromTime(now),
	}, nil
}

// Winnings is the single quantization rule of the payout model:
// floor(amount * odds / 100), with the intermediate product overflow-checked.
func (b *Bet) Winnings() (uint64, error) {
	product, err := CheckedMul(b.Amount, b.Odds)
	if err != nil {
		return 0, err
	}
	return product / 100, nil
}

// Settle flips the bet out of its active state. Returns the winnings to
// credit on a win, zero on a loss. Settling an inactive bet or settling
// before expiry fails without mutation.
func (b *Bet) Settle(now time.Time, isWon bool) (uint64, error) {
	if !b.IsActive {
		return 0, ErrBetNotActive
	}
	if now.Unix() < b.ExpiryTime {
		return 0, ErrBetNotExpired
	}
	var winnings uint64
	if isWon {
		w, err := b.Winnings()
		if err != nil {
			return 0, err
		}
		winnings = w
	}
	b.IsActive = false
	return winnings, nil
}

// SettlementEvent is the audit row emitted when a bet settles. The bet
// record itself is deleted afterwards, so this is the only retrievable
// history of a settled wager.
type SettlementEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BetID     string             `bson:"betid" json:"betid"`
	User      string             `bson:"user" json:"user"`
	Amount    uint64             `bson:"amount" json:"amount"`
	Odds      uint64             `bson:"odds" json:"odds"`
	IsWon     bool               `bson:"iswon" json:"iswon"`
	Winnings  uint64             `bson:"winnings" json:"winnings"`
	SettledAt primitive.DateTime `bson:"settledat" json:"settledat"`
}

// Request payloads

type CreateBetRequest struct {
	Owner      string `json:"owner" validate:"required,min=1,max=30"`
	Timestamp  int64  `json:"timestamp" validate:"required"`
	Odds       uint64 `json:"odds"`
	ExpiryTime int64  `json:"expirytime" validate:"required"`
	Amount     uint64 `json:"amount"`
}

type SettleBetRequest struct {
	Owner     string `json:"owner" validate:"required,min=1,max=30"`
	Timestamp int64  `json:"timestamp" validate:"required"`
	IsWon     bool   `json:"iswon"`
}
