package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProxyAccount is the per-owner custodial escrow record. Its balance funds
// bets and receives winnings, separate from the owner's spendable balance.
// The counters are monotonically non-decreasing.
type ProxyAccount struct {
	ID              string             `bson:"_id" json:"id"`
	Owner           string             `bson:"owner" json:"owner" validate:"required,min=1,max=30"`
	Balance         uint64             `bson:"balance" json:"balance"`
	TotalBets       uint64             `bson:"totalbets" json:"totalbets"`
	TotalDeposited  uint64             `bson:"totaldeposited" json:"totaldeposited"`
	TotalWithdrawn  uint64             `bson:"totalwithdrawn" json:"totalwithdrawn"`
	DerivationNonce uint32             `bson:"derivationnonce" json:"derivationnonce"`
	CreateDate      primitive.DateTime `bson:"createdate" json:"createdate"`
}

func NewProxyAccount(owner string) *ProxyAccount {
	key := ProxyAccountKey(owner)
	return &ProxyAccount{
		ID:              key,
		Owner:           owner,
		Balance:         0,
		TotalBets:       0,
		TotalDeposited:  0,
		TotalWithdrawn:  0,
		DerivationNonce: DerivationNonce(key),
		CreateDate:      primitive.NewDateTimeFromTime(time.Now()),
	}
}

// ApplyDeposit credits the custodial balance. The matching debit of the
// owner's spendable balance must commit in the same transaction.
func (p *ProxyAccount) ApplyDeposit(amount uint64) error {
	if amount == 0 {
		return ErrInvalidBetAmount
	}
	newBalance, err := CheckedAdd(p.Balance, amount)
	if err != nil {
		return err
	}
	newDeposited, err := CheckedAdd(p.TotalDeposited, amount)
	if err != nil {
		return err
	}
	p.Balance = newBalance
	p.TotalDeposited = newDeposited
	return nil
}

// DebitStake locks a bet's stake by removing it from the balance.
// Insufficient balance is its own failure, checked before the subtraction.
func (p *ProxyAccount) DebitStake(amount uint64) error {
	if p.Balance < amount {
		return ErrInsufficientBalance
	}
	newBalance, err := CheckedSub(p.Balance, amount)
	if err != nil {
		return err
	}
	newTotalBets, err := CheckedAdd(p.TotalBets, 1)
	if err != nil {
		return err
	}
	p.Balance = newBalance
	p.TotalBets = newTotalBets
	return nil
}

// CreditWinnings pays a won bet back into the custodial balance.
func (p *ProxyAccount) CreditWinnings(winnings uint64) error {
	newBalance, err := CheckedAdd(p.Balance, winnings)
	if err != nil {
		return err
	}
	p.Balance = newBalance
	return nil
}

// ApplyWithdrawal moves funds back out of escrow. The matching credit of
// the owner's spendable balance must commit in the same transaction.
func (p *ProxyAccount) ApplyWithdrawal(amount uint64) error {
	if amount == 0 {
		return ErrInvalidBetAmount
	}
	if p.Balance < amount {
		return ErrInsufficientBalance
	}
	newBalance, err := CheckedSub(p.Balance, amount)
	if err != nil {
		return err
	}
	newWithdrawn, err := CheckedAdd(p.TotalWithdrawn, amount)
	if err != nil {
		return err
	}
	p.Balance = newBalance
	p.TotalWithdrawn = newWithdrawn
	return nil
}
