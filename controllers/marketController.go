package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tap-trading/tapbet-be/authentication"
	"github.com/tap-trading/tapbet-be/config"
	"github.com/tap-trading/tapbet-be/database"
	"github.com/tap-trading/tapbet-be/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func marketCollection() *mongo.Collection {
	return database.OpenCollection(database.Client(), config.GlobalConfig.MarketCollection)
}

func loadMarket(ctx context.Context) (*models.Market, error) {
	res := marketCollection().FindOne(ctx, bson.M{"_id": models.MarketKey()})
	var market models.Market
	if err := res.Decode(&market); err != nil {
		return nil, err
	}
	return &market, nil
}

func replaceMarket(ctx context.Context, market *models.Market) error {
	res, err := marketCollection().ReplaceOne(ctx, bson.M{"_id": market.ID}, market)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("market record vanished during update")
	}
	return nil
}

// The first caller becomes the settlement authority. The market key is
// fixed, so a second initialization fails as already existing.
var InitializeMarketFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	un, ok := c.Get("username")
	authority, isString := un.(string)
	if !ok || !isString {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not get username from context"})
		return
	}

	market := models.NewMarket(authority)
	_, err := marketCollection().InsertOne(ctx, market)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			abortWithLedgerError(c, models.ErrRecordAlreadyExists)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Market initialized by authority: %s", authority)
	c.JSON(http.StatusOK, market)
}

var GetMarketFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	market, err := loadMarket(ctx)
	if err != nil {
		abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, market)
}

// Settles one bet as won or lost. Authority only, and only at or after the
// bet's expiry. The bet record is replaced by a settlement event.
var SettleBetFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var settleReq models.SettleBetRequest

	if err := c.BindJSON(&settleReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if validationErr := validate.Struct(settleReq); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	now := time.Now()

	var event *models.SettlementEvent
	txnErr := runTransaction(ctx, func(sc mongo.SessionContext) error {
		market, err := loadMarket(sc)
		if err != nil {
			return err
		}
		if permissionErr := authentication.CheckUserPermissions(c, &market.Authority); permissionErr != nil {
			return models.ErrUnauthorized
		}

		bet, err := loadBet(sc, settleReq.Owner, settleReq.Timestamp)
		if err != nil {
			return err
		}
		proxy, err := loadProxyAccount(sc, bet.User)
		if err != nil {
			return err
		}
		// The bet must reference the escrow being credited
		if bet.ProxyAccount != proxy.ID {
			return models.ErrUnauthorized
		}

		winnings, err := bet.Settle(now, settleReq.IsWon)
		if err != nil {
			return err
		}

		if settleReq.IsWon {
			if err := proxy.CreditWinnings(winnings); err != nil {
				return err
			}
			if err := replaceProxyAccount(sc, proxy); err != nil {
				return err
			}
		}

		if err := market.RecordSettlement(bet.Amount, settleReq.IsWon); err != nil {
			return err
		}
		if err := replaceMarket(sc, market); err != nil {
			return err
		}

		event = &models.SettlementEvent{
			BetID:     bet.ID,
			User:      bet.User,
			Amount:    bet.Amount,
			Odds:      bet.Odds,
			IsWon:     settleReq.IsWon,
			Winnings:  winnings,
			SettledAt: primitive.NewDateTimeFromTime(now),
		}
		if _, err := settlementCollection().InsertOne(sc, event); err != nil {
			return err
		}

		// Close out the bet record; the event above is its only history
		_, err = betCollection().DeleteOne(sc, bson.M{"_id": bet.ID})
		return err
	})
	if txnErr != nil {
		abortWithLedgerError(c, txnErr)
		return
	}

	log.Printf("Bet settled and closed: %s (won=%t, winnings=%d)", event.BetID, event.IsWon, event.Winnings)
	c.JSON(http.StatusOK, event)
}

// Authority-only fee withdrawal, refusing to drain the market below its
// minimum reserve.
var WithdrawOwnerFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var withdrawReq models.AmountRequest

	if err := c.BindJSON(&withdrawReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if validationErr := validate.Struct(withdrawReq); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	var market *models.Market
	txnErr := runTransaction(ctx, func(sc mongo.SessionContext) error {
		var err error
		market, err = loadMarket(sc)
		if err != nil {
			return err
		}
		if permissionErr := authentication.CheckUserPermissions(c, &market.Authority); permissionErr != nil {
			return models.ErrUnauthorized
		}
		if withdrawReq.Owner != market.Authority {
			return models.ErrUnauthorized
		}

		if err := market.WithdrawFees(withdrawReq.Amount, config.GlobalConfig.MarketMinimumReserve); err != nil {
			return err
		}

		user, err := loadUser(sc, market.Authority)
		if err != nil {
			return err
		}
		newSpendable, err := models.CheckedAdd(user.Balance, withdrawReq.Amount)
		if err != nil {
			return err
		}
		if err := setUserBalance(sc, market.Authority, newSpendable); err != nil {
			return err
		}
		return replaceMarket(sc, market)
	})
	if txnErr != nil {
		abortWithLedgerError(c, txnErr)
		return
	}

	log.Printf("Authority withdrew %d from market fees", withdrawReq.Amount)
	c.JSON(http.StatusOK, market)
}

// Proxy accounts ranked by escrow balance.
var LeaderboardFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "balance", Value: -1}}).SetLimit(20)
	cursor, err := proxyCollection().Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	accounts := make([]models.ProxyAccount, 0)
	if err := cursor.All(ctx, &accounts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, accounts)
}
