package router

import (
	"github.com/gin-gonic/gin"

	"rosterlens.app/engine/internal/http/handler"
)

func RosterRouter(router *gin.RouterGroup, handler *handler.RosterHandler) {
	router.POST("/roster", handler.Ingest)
	router.POST("/roster/:id/revalidate", handler.Revalidate)
	router.GET("/scores", handler.ListScores)
	router.GET("/scores/:id", handler.GetScore)
	router.GET("/summary", handler.GetSummary)
}
