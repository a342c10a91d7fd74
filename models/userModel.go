package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an identity record. Balance is the spendable balance deposits
// draw from and withdrawals credit; it stands in for the native-currency
// account the host environment would manage.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     *string            `json:"username" validate:"required,min=1,max=30"`
	Email        *string            `json:"email" validate:"email,required"`
	Password     *string            `json:"password" validate:"required,min=6,max=100"`
	Token        *string            `json:"token"`
	RefreshToken *string            `json:"refreshtoken"`
	Balance      uint64             `json:"balance"`
}

// AmountRequest covers deposit and both withdrawal operations.
type AmountRequest struct {
	Owner  string `json:"owner" validate:"required,min=1,max=30"`
	Amount uint64 `json:"amount"`
}

// SessionRequest asks for a delegation token letting Delegate act on the
// owner's proxy account until the window closes.
type SessionRequest struct {
	Owner    string `json:"owner" validate:"required,min=1,max=30"`
	Delegate string `json:"delegate" validate:"required,min=1,max=30"`
}

type CreateProxyRequest struct {
	Owner string `json:"owner" validate:"required,min=1,max=30"`
}
