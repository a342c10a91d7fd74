package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/tap-trading/tapbet-be/authentication"
	"github.com/tap-trading/tapbet-be/config"
	"github.com/tap-trading/tapbet-be/database"
	"github.com/tap-trading/tapbet-be/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func userCollection() *mongo.Collection {
	return database.OpenCollection(database.Client(), config.GlobalConfig.UserCollection)
}

var validate = validator.New()

func HashPassword(password string) string {
	pwdBytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Panic(err)
	}
	return string(pwdBytes)
}

func VerifyPassword(givenPassword string, hashedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(givenPassword))
	return err == nil
}

// Function to sign up a user
var SignUpFunc gin.HandlerFunc = func(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var user models.User
	if err := c.BindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if validationErr := validate.Struct(user); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	numSameEmail, emailErr := userCollection().CountDocuments(ctx, bson.M{"email": user.Email})
	numSameUsername, usernameErr := userCollection().CountDocuments(ctx, bson.M{"username": user.Username})
	if emailErr != nil || usernameErr != nil {
		err := fmt.Errorf("error when validating username/email: %v; %v", usernameErr, emailErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if numSameUsername > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "This username already exists"})
		return
	}
	if numSameEmail > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "This email already exists"})
		return
	}

	password := HashPassword(*user.Password)
	user.Password = &password

	user.ID = primitive.NewObjectID()

	token, refreshToken, err := authentication.GenerateAllTokens(*user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	user.Token = &token
	user.RefreshToken = &refreshToken

	// The signup grant stands in for funding from outside the system
	user.Balance = config.GlobalConfig.InitialBalance

	res, err := userCollection().InsertOne(ctx, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User signup unsuccessful"})
		return
	}

	c.JSON(http.StatusOK, res)
}

var LoginFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var user models.User
	var matchingUser models.User

	if err := c.BindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	foundUser := userCollection().FindOne(ctx, bson.M{"email": user.Email})
	if foundUser.Err() != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User with email not found"})
		return
	}
	if err := foundUser.Decode(&matchingUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	passwordOk := VerifyPassword(*user.Password, *matchingUser.Password)
	if !passwordOk {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}

	token, refreshToken, err := authentication.GenerateAllTokens(*matchingUser.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	authentication.UpdateAllTokens(token, refreshToken, *matchingUser.Username)
	matchingUser.Token = &token
	matchingUser.RefreshToken = &refreshToken

	c.JSON(http.StatusOK, matchingUser)
}

var LogoutFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}

	res, err := userCollection().UpdateOne(
		ctx,
		bson.M{"username": username},
		bson.D{{Key: "$set", Value: bson.M{"token": "", "refresh_token": ""}}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User %s not found", username)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": fmt.Sprintf("Logged out %s", username)})
}

var GetUserFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}

	foundUser := userCollection().FindOne(ctx, bson.M{"username": username})
	var user models.User
	if foundUser.Err() != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User %s not found", username)})
		return
	}
	if err := foundUser.Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	user.Password = nil

	c.JSON(http.StatusOK, user)
}

var DeleteUserFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var user models.User

	if err := c.BindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	foundUser, err := userCollection().DeleteOne(ctx, bson.M{"email": user.Email, "username": user.Username})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if foundUser.DeletedCount == 0 {
		c.JSON(
			http.StatusNotFound,
			gin.H{
				"error": fmt.Sprintf("User %s could not be found for deletion", *user.Username),
			},
		)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": fmt.Sprintf("Successfully deleted user %s", *user.Username)})
}

// Owner issues a session token letting a delegate act on their proxy
// account for a bounded window.
var CreateSessionFunc gin.HandlerFunc = func(c *gin.Context) {
	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var sessionReq models.SessionRequest

	if err := c.BindJSON(&sessionReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only the owner may delegate their own account
	if permissionErr := authentication.CheckUserPermissions(c, &sessionReq.Owner); permissionErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": permissionErr.Error()})
		return
	}

	if validationErr := validate.Struct(sessionReq); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	delegateRes := userCollection().FindOne(ctx, bson.M{"username": sessionReq.Delegate})
	if delegateRes.Err() != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Delegate %s not found", sessionReq.Delegate)})
		return
	}

	validFor := time.Duration(config.GlobalConfig.SessionValidityMins) * time.Minute
	sessionToken, err := authentication.GenerateSessionToken(sessionReq.Owner, sessionReq.Delegate, validFor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sessionToken})
}
