package main

import (
	"github.com/gin-gonic/gin"
	"github.com/tap-trading/tapbet-be/config"
	"github.com/tap-trading/tapbet-be/middleware"
	"github.com/tap-trading/tapbet-be/routes"
)

func main() {
	err := config.SetupConfig()
	if err != nil {
		panic("Error in config: " + err.Error())
	}

	port := config.GlobalConfig.Port

	router := gin.New()
	// TODO: specify trusted proxies
	router.Use(gin.Logger())
	routes.UnprotectedUserRoutes(router) // Signup and login
	routes.UnprotectedProxyRoutes(router)
	routes.UnprotectedBetRoutes(router)
	routes.UnprotectedMarketRoutes(router)

	router.Use(middleware.Authentication)
	routes.ProtectedUserRoutes(router)
	routes.ProtectedProxyRoutes(router)
	routes.ProtectedBetRoutes(router)
	routes.ProtectedMarketRoutes(router)

	router.Run(":" + port)
}
