package router

import (
	"github.com/gin-gonic/gin"

	"rosterlens.app/engine/internal/http/handler"
)

func AskRouter(router *gin.RouterGroup, handler *handler.AskHandler) {
	router.POST("/ask", handler.Ask)
	router.GET("/session", handler.Session)
	router.POST("/session/reset", handler.ResetSession)
}
