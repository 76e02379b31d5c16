package router

import (
	"github.com/gin-gonic/gin"

	"rosterlens.app/engine/internal/http/handler"
)

func BatchRouter(router *gin.RouterGroup, handler *handler.BatchHandler) {
	router.GET("/batches", handler.List)
	router.GET("/batches/:id", handler.Get)
	router.GET("/batches/:id/scores", handler.ListScores)
	router.GET("/batches/:id/issues", handler.ListIssues)
	router.GET("/batches/:id/providers/:provider_id", handler.GetProvider)
}
