package main

import (
	"log"
	"net/http"
	"srs/src/controllers"

	"github.com/gin-gonic/gin"
)

func webauthnHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	wa := g.Group("/webauthn")
	wa.
		POST("/register-options", func(ctx *gin.Context) {
			opts, status, err := controllers.WebAuthnRegisterStart(ctx.Copy())
			if err != nil {
				log.Printf("[WebAuthnRegisterStart] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"publicKey": opts.Response})
		}).
		POST("/verify-registration", func(ctx *gin.Context) {
			credential, status, err := controllers.WebAuthnRegisterFinish(ctx)
			if err != nil {
				log.Printf("[WebAuthnRegisterFinish] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"verified": true, "credential_id": credential.ID})
		}).
		POST("/authenticate-options", func(ctx *gin.Context) {
			opts, status, err := controllers.WebAuthnLoginStart(ctx.Copy())
			if err != nil {
				log.Printf("[WebAuthnLoginStart] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"publicKey": opts.Response})
		}).
		POST("/verify-authentication", func(ctx *gin.Context) {
			data, status, err := controllers.WebAuthnLoginFinish(ctx)
			if err != nil {
				log.Printf("[WebAuthnLoginFinish] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, data)
		})
	return g
}
