package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/babyline/internal/middleware"
)

type RouterDeps struct {
	Auth         *AuthHandler
	Babies       *BabyHandler
	Measurements *MeasurementHandler
	Photos       *PhotoHandler
	Shares       *ShareHandler
	JWTSecret    []byte
	RateWindow   time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/babies", deps.Babies.Create)
	authGroup.GET("/babies", deps.Babies.List)
	authGroup.GET("/babies/:id", deps.Babies.Get)
	authGroup.PUT("/babies/:id", deps.Babies.Update)
	authGroup.DELETE("/babies/:id", deps.Babies.Delete)

	authGroup.POST("/babies/:id/measurements", deps.Measurements.Create)
	authGroup.GET("/babies/:id/measurements", deps.Measurements.List)
	authGroup.GET("/babies/:id/measurements/stats", deps.Measurements.Stats)
	authGroup.PUT("/measurements/:id", deps.Measurements.Update)
	authGroup.DELETE("/measurements/:id", deps.Measurements.Delete)

	authGroup.POST("/babies/:id/photos", deps.Photos.Upload)
	authGroup.GET("/babies/:id/photos", deps.Photos.List)
	authGroup.DELETE("/photos/:id", deps.Photos.Delete)

	authGroup.POST("/babies/:id/shares", deps.Shares.Create)
	authGroup.GET("/babies/:id/shares", deps.Shares.List)
	authGroup.DELETE("/shares/:id", deps.Shares.Revoke)

	publicGroup := api.Group("/public")
	publicGroup.Use(middleware.RateLimit(deps.RateWindow))
	publicGroup.GET("/share/:token", deps.Shares.PublicGet)
	publicGroup.GET("/share/:token/measurements", deps.Shares.PublicMeasurements)
	publicGroup.GET("/share/:token/photos", deps.Shares.PublicPhotos)

	api.GET("/files/:key", deps.Photos.GetFile)
}
