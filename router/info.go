package router

import (
	"net/http"

	"amm-indexer/config"
	"amm-indexer/metrics"
	"amm-indexer/models"
	"amm-indexer/storage"
	"amm-indexer/utils"

	"github.com/gin-gonic/gin"
)

type InfoRouter struct {
	dbc   *storage.DBClient
	chain config.ChainConfig
}

func NewInfoRouter(db *storage.DBClient, chain config.ChainConfig) *InfoRouter {
	return &InfoRouter{
		dbc:   db,
		chain: chain,
	}
}

func (r *InfoRouter) Factory(c *gin.Context) {
	factory := &models.Factory{}
	err := r.dbc.DB.Where("address = ?", r.chain.FactoryAddress).First(factory).Error
	if err != nil {
		result := &utils.HttpResult{}
		result.Code = 500
		result.Msg = "server error"
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	result := &utils.HttpResult{}
	result.Code = 200
	result.Msg = "success"
	result.Data = factory
	c.JSON(http.StatusOK, result)
}

func (r *InfoRouter) Status(c *gin.Context) {
	var swaps int64
	if err := r.dbc.DB.Model(&models.Swap{}).Count(&swaps).Error; err != nil {
		result := &utils.HttpResult{}
		result.Code = 500
		result.Msg = "server error"
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	result := &utils.HttpResult{}
	result.Code = 200
	result.Msg = "success"
	result.Data = map[string]interface{}{
		"last_block": metrics.LastBlock(),
		"swap_count": swaps,
	}
	c.JSON(http.StatusOK, result)
}

func (r *InfoRouter) EthPrice(c *gin.Context) {
	bundle := &models.Bundle{}
	err := r.dbc.DB.Where("id = ?", 1).First(bundle).Error
	if err != nil {
		result := &utils.HttpResult{}
		result.Code = 500
		result.Msg = "server error"
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	result := &utils.HttpResult{}
	result.Code = 200
	result.Msg = "success"
	result.Data = bundle
	c.JSON(http.StatusOK, result)
}
