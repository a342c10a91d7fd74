package authentication

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/tap-trading/tapbet-be/config"
	"github.com/tap-trading/tapbet-be/database"
	"github.com/tap-trading/tapbet-be/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func userCollection() *mongo.Collection {
	return database.OpenCollection(database.Client(), config.GlobalConfig.UserCollection)
}

// Used to hold JWT info
type SignedDetails struct {
	Username string
	jwt.StandardClaims
}

// SessionDetails is a delegation credential: Delegate may act on Owner's
// proxy account until the claim expires. Issued by the owner, never by the
// delegate.
type SessionDetails struct {
	Owner    string
	Delegate string
	jwt.StandardClaims
}

func ValidateToken(signedToken string) (*SignedDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(config.GlobalConfig.SecretKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SignedDetails)
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.ExpiresAt < time.Now().Local().Unix() {
		return nil, fmt.Errorf("expired token")
	}

	return claims, nil
}

func GenerateAllTokens(username string) (string, string, error) {
	expiryHours := 24
	if config.GlobalConfig.Debug {
		expiryHours = 168
	}
	claims := &SignedDetails{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			Issuer:    username,
			ExpiresAt: time.Now().Local().Add(time.Duration(expiryHours) * time.Hour).Unix(),
		},
	}

	refreshClaims := &SignedDetails{
		StandardClaims: jwt.StandardClaims{
			Issuer:    username,
			ExpiresAt: time.Now().Local().Add(time.Duration(24) * time.Duration(7) * time.Hour).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.GlobalConfig.SecretKey))
	refreshToken, err2 := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(config.GlobalConfig.SecretKey))
	log.Printf("Generated JWT tokens for %s", username)
	if err != nil || err2 != nil {
		err = fmt.Errorf("%v %v", err, err2)
		return "", "", err
	}

	return token, refreshToken, nil
}

// GenerateSessionToken issues a delegation token bound to the owner with
// its own validity window.
func GenerateSessionToken(owner string, delegate string, validFor time.Duration) (string, error) {
	claims := &SessionDetails{
		Owner:    owner,
		Delegate: delegate,
		StandardClaims: jwt.StandardClaims{
			Issuer:    owner,
			ExpiresAt: time.Now().Local().Add(validFor).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.GlobalConfig.SecretKey))
	if err != nil {
		return "", err
	}
	log.Printf("Generated session token for %s acting as %s", delegate, owner)
	return token, nil
}

func ValidateSessionToken(signedToken string) (*SessionDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SessionDetails{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(config.GlobalConfig.SecretKey), nil
		},
	)
	if err != nil {
		return nil, models.ErrDelegationInvalid
	}

	claims, ok := token.Claims.(*SessionDetails)
	if !ok {
		return nil, models.ErrDelegationInvalid
	}

	if claims.ExpiresAt < time.Now().Local().Unix() {
		return nil, models.ErrDelegationInvalid
	}

	return claims, nil
}

// Uses only username
func UpdateAllTokens(signedToken string, signedRefreshToken string, username string) {
	var ctx, cancel = context.WithTimeout(context.Background(), time.Duration(2)*time.Minute)
	defer cancel()

	var updateObj primitive.D
	updateObj = append(updateObj, bson.E{Key: "token", Value: signedToken}, bson.E{Key: "refresh_token", Value: signedRefreshToken})

	upsert := true
	filter := bson.M{"username": username}
	opt := options.UpdateOptions{
		Upsert: &upsert,
	}
	_, err := userCollection().UpdateOne(
		ctx,
		filter,
		bson.D{
			{Key: "$set", Value: updateObj},
		},
		&opt,
	)

	if err != nil {
		log.Panic(err)
		return
	}
}

// CheckUserPermissions passes only if the logged-in identity is exactly the
// given one.
func CheckUserPermissions(c *gin.Context, username *string) error {
	un, ok := c.Get("username")
	uns, isString := un.(string)
	if !ok || !isString {
		return fmt.Errorf("could not get username from context")
	}
	if *username == uns {
		return nil
	}
	return fmt.Errorf("current user %s does not have the required permissions", uns)
}

// CheckActorPermissions is the authorization predicate for owner-scoped
// ledger operations: the call is authorized if the logged-in identity is the
// owner, or if the request carries a valid session token binding the
// logged-in identity to the owner.
func CheckActorPermissions(c *gin.Context, owner string) error {
	if err := CheckUserPermissions(c, &owner); err == nil {
		return nil
	}

	sessionToken := c.Request.Header.Get("session")
	if sessionToken == "" {
		return models.ErrUnauthorized
	}
	claims, err := ValidateSessionToken(sessionToken)
	if err != nil {
		return err
	}
	un, ok := c.Get("username")
	uns, isString := un.(string)
	if !ok || !isString {
		return models.ErrUnauthorized
	}
	if claims.Owner != owner || claims.Delegate != uns {
		return models.ErrDelegationInvalid
	}
	return nil
}
