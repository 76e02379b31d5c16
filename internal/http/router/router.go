package router

import (
	"github.com/gin-gonic/gin"

	"rosterlens.app/engine/internal/dataset"
	"rosterlens.app/engine/internal/http/handler"
	"rosterlens.app/engine/internal/pipeline"
	"rosterlens.app/engine/internal/roster"
	"rosterlens.app/engine/internal/store"
)

func SetupRoutes(router *gin.Engine, service *roster.Service, snapshots *dataset.Store, stores *store.Stores, p *pipeline.Pipeline) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		rosterHandler := handler.NewRosterHandler(service, snapshots)
		RosterRouter(v1, rosterHandler)

		batchHandler := handler.NewBatchHandler(
			stores.Batches(), stores.Providers(), stores.Issues(), stores.Scores())
		BatchRouter(v1, batchHandler)

		askHandler := handler.NewAskHandler(p)
		AskRouter(v1, askHandler)
	}
}
