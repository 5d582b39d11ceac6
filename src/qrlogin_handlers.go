package main

import (
	"log"
	"net/http"
	"srs/src/controllers"

	"github.com/gin-gonic/gin"
)

func qrLoginHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	qr := g.Group("/qr-login")
	qr.
		POST("/generate", func(ctx *gin.Context) {
			data, status, err := controllers.QRLoginGenerate()
			if err != nil {
				log.Printf("[QRLoginGenerate] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": "Failed to generate QR code"})
				return
			}
			ctx.JSON(status, data)
		}).
		POST("/submit", func(ctx *gin.Context) {
			data, status, err := controllers.QRLoginSubmit(ctx)
			if err != nil {
				log.Printf("[QRLoginSubmit] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, data)
		}).
		POST("/verify", func(ctx *gin.Context) {
			data, status, err := controllers.QRLoginVerify(ctx)
			if err != nil {
				log.Printf("[QRLoginVerify] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, data)
		}).
		GET("/status/:sessionId", func(ctx *gin.Context) {
			var params struct {
				SessionID string `uri:"sessionId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			data, status, _ := controllers.QRLoginStatus(params.SessionID)
			ctx.JSON(status, data)
		})
	return g
}
