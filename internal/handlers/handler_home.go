package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notcool100/astrofinance-ledger/internal/platform/config"
)

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"message":  "AstroFinance Ledger API v1",
			"currency": cfg.DefaultCurrency,
		})
	}
}
