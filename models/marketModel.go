package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Market is the singleton aggregator of settled volume and collected fees.
// Its authority is the only identity allowed to settle bets and withdraw
// fees. Lost stakes accrue here instead of going to a counterparty.
type Market struct {
	ID              string             `bson:"_id" json:"id"`
	Authority       string             `bson:"authority" json:"authority"`
	TotalVolume     uint64             `bson:"totalvolume" json:"totalvolume"`
	TotalFees       uint64             `bson:"totalfees" json:"totalfees"`
	IsActive        bool               `bson:"isactive" json:"isactive"`
	DerivationNonce uint32             `bson:"derivationnonce" json:"derivationnonce"`
	CreateDate      primitive.DateTime `bson:"createdate" json:"createdate"`
}

func NewMarket(authority string) *Market {
	key := MarketKey()
	return &Market{
		ID:              key,
		Authority:       authority,
		TotalVolume:     0,
		TotalFees:       0,
		IsActive:        true,
		DerivationNonce: DerivationNonce(key),
		CreateDate:      primitive.NewDateTimeFromTime(time.Now()),
	}
}

// RecordSettlement folds a settled bet into the market aggregates: volume
// grows on both outcomes, fees only collect the stake of a lost bet.
func (m *Market) RecordSettlement(amount uint64, isWon bool) error {
	if !isWon {
		newFees, err := CheckedAdd(m.TotalFees, amount)
		if err != nil {
			return err
		}
		m.TotalFees = newFees
	}
	newVolume, err := CheckedAdd(m.TotalVolume, amount)
	if err != nil {
		return err
	}
	m.TotalVolume = newVolume
	return nil
}

// WithdrawFees releases collected fees to the authority, refusing to drain
// the market below its minimum reserve.
func (m *Market) WithdrawFees(amount uint64, minimumReserve uint64) error {
	if amount == 0 {
		return ErrInvalidBetAmount
	}
	if m.TotalFees < amount {
		return ErrInsufficientBalance
	}
	remaining, err := CheckedSub(m.TotalFees, amount)
	if err != nil {
		return err
	}
	if remaining < minimumReserve {
		return ErrInsufficientBalance
	}
	m.TotalFees = remaining
	return nil
}
