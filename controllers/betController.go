package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tap-trading/tapbet-be/authentication"
	"github.com/tap-trading/tapbet-be/config"
	"github.com/tap-trading/tapbet-be/database"
	"github.com/tap-trading/tapbet-be/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func betCollection() *mongo.Collection {
	return database.OpenCollection(database.Client(), config.GlobalConfig.BetCollection)
}

func settlementCollection() *mongo.Collection {
	return database.OpenCollection(database.Client(), config.GlobalConfig.SettlementCollection)
}

func loadBet(ctx context.Context, owner string, timestamp int64) (*models.Bet, error) {
	res := betCollection().FindOne(ctx, bson.M{"_id": models.BetKey(owner, timestamp)})
	var bet models.Bet
	if err := res.Decode(&bet); err != nil {
		return nil, err
	}
	return &bet, nil
}

// Pass in owner, timestamp, odds, expiry time and amount. The timestamp is
// part of the bet key, so one owner can hold several bets at once; reusing
// the timestamp of a live bet fails as already existing.
var CreateBetFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var betReq models.CreateBetRequest

	if err := c.BindJSON(&betReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Owner or a delegate holding a valid session token
	if permissionErr := authentication.CheckActorPermissions(c, betReq.Owner); permissionErr != nil {
		abortWithLedgerError(c, permissionErr)
		return
	}

	if validationErr := validate.Struct(betReq); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	// Time is read once and treated as a snapshot for the whole operation
	now := time.Now()

	var bet *models.Bet
	txnErr := runTransaction(ctx, func(sc mongo.SessionContext) error {
		market, err := loadMarket(sc)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return models.ErrMarketNotActive
			}
			return err
		}
		if !market.IsActive {
			return models.ErrMarketNotActive
		}

		proxy, err := loadProxyAccount(sc, betReq.Owner)
		if err != nil {
			return err
		}

		bet, err = models.NewBet(betReq.Owner, betReq.Timestamp, betReq.Odds, betReq.ExpiryTime, betReq.Amount, now)
		if err != nil {
			return err
		}

		if err := proxy.DebitStake(betReq.Amount); err != nil {
			return err
		}

		if _, err := betCollection().InsertOne(sc, bet); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return models.ErrRecordAlreadyExists
			}
			return err
		}
		return replaceProxyAccount(sc, proxy)
	})
	if txnErr != nil {
		abortWithLedgerError(c, txnErr)
		return
	}

	log.Printf("Bet created: user=%s, amount=%d, odds=%d, expiry=%d", bet.User, bet.Amount, bet.Odds, bet.ExpiryTime)
	c.JSON(http.StatusOK, bet)
}

var GetActiveBetsFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner required"})
		return
	}

	cursor, err := betCollection().Find(ctx, bson.M{"user": owner, "isactive": true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	bets := make([]models.Bet, 0)
	if err := cursor.All(ctx, &bets); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bets)
}

// Settled bets are deleted, so the settlement events are the only history.
var GetSettlementsFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner required"})
		return
	}

	cursor, err := settlementCollection().Find(ctx, bson.M{"user": owner})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	events := make([]models.SettlementEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}
