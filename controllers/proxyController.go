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
	"go.mongodb.org/mongo-driver/mongo"
)

func proxyCollection() *mongo.Collection {
	return database.OpenCollection(database.Client(), config.GlobalConfig.ProxyCollection)
}

// runTransaction gives every ledger operation the all-or-nothing behavior
// the record invariants assume: either all record writes and balance
// transfers commit, or none do.
func runTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := database.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func abortWithLedgerError(c *gin.Context, err error) {
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(models.StatusForError(err), gin.H{"error": err.Error()})
}

func loadUser(ctx context.Context, username string) (*models.User, error) {
	res := userCollection().FindOne(ctx, bson.M{"username": username})
	var user models.User
	if err := res.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func setUserBalance(ctx context.Context, username string, balance uint64) error {
	res, err := userCollection().UpdateOne(
		ctx,
		bson.M{"username": username},
		bson.D{{Key: "$set", Value: bson.M{"balance": balance}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("tried to update balance for invalid user %s", username)
	}
	return nil
}

func loadProxyAccount(ctx context.Context, owner string) (*models.ProxyAccount, error) {
	res := proxyCollection().FindOne(ctx, bson.M{"_id": models.ProxyAccountKey(owner)})
	var proxy models.ProxyAccount
	if err := res.Decode(&proxy); err != nil {
		return nil, err
	}
	return &proxy, nil
}

func replaceProxyAccount(ctx context.Context, proxy *models.ProxyAccount) error {
	res, err := proxyCollection().ReplaceOne(ctx, bson.M{"_id": proxy.ID}, proxy)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("proxy account %s vanished during update", proxy.ID)
	}
	return nil
}

// Pass in the owner username; the proxy account key is derived from it, so
// a second creation for the same owner fails as already existing.
var CreateProxyAccountFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var createReq models.CreateProxyRequest

	if err := c.BindJSON(&createReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// An identity may only create its own proxy account
	if permissionErr := authentication.CheckUserPermissions(c, &createReq.Owner); permissionErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": permissionErr.Error()})
		return
	}

	if validationErr := validate.Struct(createReq); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	proxy := models.NewProxyAccount(createReq.Owner)
	_, err := proxyCollection().InsertOne(ctx, proxy)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			abortWithLedgerError(c, models.ErrRecordAlreadyExists)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Proxy account created for owner %s", createReq.Owner)
	c.JSON(http.StatusOK, proxy)
}

// Moves funds from the owner's spendable balance into escrow. The transfer
// and the bookkeeping commit together or not at all.
var DepositFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var depositReq models.AmountRequest

	if err := c.BindJSON(&depositReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if permissionErr := authentication.CheckActorPermissions(c, depositReq.Owner); permissionErr != nil {
		abortWithLedgerError(c, permissionErr)
		return
	}

	if validationErr := validate.Struct(depositReq); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	if depositReq.Amount == 0 {
		abortWithLedgerError(c, models.ErrInvalidBetAmount)
		return
	}

	var proxy *models.ProxyAccount
	txnErr := runTransaction(ctx, func(sc mongo.SessionContext) error {
		user, err := loadUser(sc, depositReq.Owner)
		if err != nil {
			return err
		}
		if user.Balance < depositReq.Amount {
			return models.ErrInsufficientBalance
		}

		proxy, err = loadProxyAccount(sc, depositReq.Owner)
		if err != nil {
			return err
		}
		if err := proxy.ApplyDeposit(depositReq.Amount); err != nil {
			return err
		}

		newSpendable, err := models.CheckedSub(user.Balance, depositReq.Amount)
		if err != nil {
			return err
		}
		if err := setUserBalance(sc, depositReq.Owner, newSpendable); err != nil {
			return err
		}
		return replaceProxyAccount(sc, proxy)
	})
	if txnErr != nil {
		abortWithLedgerError(c, txnErr)
		return
	}

	log.Printf("Deposited %d to proxy account of %s", depositReq.Amount, depositReq.Owner)
	c.JSON(http.StatusOK, proxy)
}

// Moves funds from escrow back to the owner's spendable balance. The funds
// always land with the owner, even when a delegate makes the call.
var WithdrawUserFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var withdrawReq models.AmountRequest

	if err := c.BindJSON(&withdrawReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if permissionErr := authentication.CheckActorPermissions(c, withdrawReq.Owner); permissionErr != nil {
		abortWithLedgerError(c, permissionErr)
		return
	}

	if validationErr := validate.Struct(withdrawReq); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	if withdrawReq.Amount == 0 {
		abortWithLedgerError(c, models.ErrInvalidBetAmount)
		return
	}

	var proxy *models.ProxyAccount
	txnErr := runTransaction(ctx, func(sc mongo.SessionContext) error {
		var err error
		proxy, err = loadProxyAccount(sc, withdrawReq.Owner)
		if err != nil {
			return err
		}
		if err := proxy.ApplyWithdrawal(withdrawReq.Amount); err != nil {
			return err
		}

		user, err := loadUser(sc, withdrawReq.Owner)
		if err != nil {
			return err
		}
		newSpendable, err := models.CheckedAdd(user.Balance, withdrawReq.Amount)
		if err != nil {
			return err
		}
		if err := setUserBalance(sc, withdrawReq.Owner, newSpendable); err != nil {
			return err
		}
		return replaceProxyAccount(sc, proxy)
	})
	if txnErr != nil {
		abortWithLedgerError(c, txnErr)
		return
	}

	log.Printf("Withdrew %d from proxy account of %s", withdrawReq.Amount, withdrawReq.Owner)
	c.JSON(http.StatusOK, proxy)
}

var GetProxyAccountFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner required"})
		return
	}

	proxy, err := loadProxyAccount(ctx, owner)
	if err != nil {
		abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, proxy)
}
