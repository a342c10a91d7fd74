package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tap-trading/tapbet-be/authentication"
	"github.com/tap-trading/tapbet-be/config"
	"github.com/tap-trading/tapbet-be/middleware"
)

// These cover the request paths that fail before any record access:
// authentication, authorization and payload validation. The ledger
// arithmetic itself is covered in the models package.

func init() {
	gin.SetMode(gin.TestMode)
	config.GlobalConfig.SecretKey = "test-secret"
}

func testRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.Authentication)
	router.POST("/proxy/create", CreateProxyAccountFunc)
	router.POST("/proxy/deposit", DepositFunc)
	router.POST("/proxy/withdraw", WithdrawUserFunc)
	router.POST("/bets/create", CreateBetFunc)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string, body string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("token", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, username string) string {
	t.Helper()
	token, _, err := authentication.GenerateAllTokens(username)
	require.NoError(t, err)
	return token
}

func TestMissingTokenRejected(t *testing.T) {
	router := testRouter()
	w := doRequest(t, router, "/proxy/deposit", `{"owner":"alice","amount":100}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGarbageTokenRejected(t *testing.T) {
	router := testRouter()
	w := doRequest(t, router, "/proxy/deposit", `{"owner":"alice","amount":100}`, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDepositForOtherOwnerRejected(t *testing.T) {
	router := testRouter()
	// bob holds no session token for alice's account
	w := doRequest(t, router, "/proxy/deposit", `{"owner":"alice","amount":100}`, loginToken(t, "bob"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithdrawForOtherOwnerRejected(t *testing.T) {
	router := testRouter()
	w := doRequest(t, router, "/proxy/withdraw", `{"owner":"alice","amount":100}`, loginToken(t, "bob"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBetForOtherOwnerRejected(t *testing.T) {
	router := testRouter()
	body := `{"owner":"alice","timestamp":1,"odds":150,"expirytime":99999999999,"amount":500}`
	w := doRequest(t, router, "/bets/create", body, loginToken(t, "bob"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProxyForOtherOwnerRejected(t *testing.T) {
	router := testRouter()
	w := doRequest(t, router, "/proxy/create", `{"owner":"alice"}`, loginToken(t, "bob"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedBodyRejected(t *testing.T) {
	router := testRouter()
	w := doRequest(t, router, "/bets/create", `{"owner":`, loginToken(t, "alice"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
