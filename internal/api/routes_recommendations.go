package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/paintstore/internal/handlers"
)

func registerRecommendationRoutes(r gin.IRouter, handler *handlers.RecommendationHandler) {
	if handler == nil {
		return
	}

	r.GET("/popular", handler.Popular)
	r.GET("/similar/:product_id", handler.Similar)
}
