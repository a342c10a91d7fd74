package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tap-trading/tapbet-be/controllers"
)

func UnprotectedProxyRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/proxy/get", controllers.GetProxyAccountFunc)
}

func ProtectedProxyRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/proxy/create", controllers.CreateProxyAccountFunc)
	incomingRoutes.POST("/proxy/deposit", controllers.DepositFunc)
	incomingRoutes.POST("/proxy/withdraw", controllers.WithdrawUserFunc)
}
