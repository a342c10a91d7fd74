package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tap-trading/tapbet-be/controllers"
)

func UnprotectedBetRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/bets/active", controllers.GetActiveBetsFunc)
	incomingRoutes.GET("/bets/settlements", controllers.GetSettlementsFunc)
}

func ProtectedBetRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/bets/create", controllers.CreateBetFunc)
}
