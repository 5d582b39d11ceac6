package main

import (
	"log"
	"net/http"
	"srs/src/controllers"

	"github.com/gin-gonic/gin"
)

func authHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	auth := g.Group("/auth")
	auth.
		GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		}).
		POST("/register", func(ctx *gin.Context) {
			user, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				log.Printf("[AuthRegister] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"message": "User registered successfully!", "user": user})
		}).
		POST("/login", func(ctx *gin.Context) {
			data, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, data)
		}).
		POST("/get-user-by-email", func(ctx *gin.Context) {
			user, status, err := controllers.AuthGetUserByEmail(ctx)
			if err != nil {
				log.Printf("[AuthGetUserByEmail] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, user)
		})
	return g
}
