package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tap-trading/tapbet-be/controllers"
)

func UnprotectedMarketRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/market/get", controllers.GetMarketFunc)
	incomingRoutes.GET("/market/leaderboard", controllers.LeaderboardFunc)
}

func ProtectedMarketRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/market/initialize", controllers.InitializeMarketFunc)
	incomingRoutes.POST("/market/settlebet", controllers.SettleBetFunc)
	incomingRoutes.POST("/market/withdraw", controllers.WithdrawOwnerFunc)
}
