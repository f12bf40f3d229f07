package router

import (
	"net/http"

	"amm-indexer/models"
	"amm-indexer/storage"
	"amm-indexer/utils"

	"github.com/gin-gonic/gin"
)

type SwapRouter struct {
	dbc *storage.DBClient
}

func NewSwapRouter(db *storage.DBClient) *SwapRouter {
	return &SwapRouter{
		dbc: db,
	}
}

func (r *SwapRouter) Swaps(c *gin.Context) {
	params := &struct {
		PoolAddress   string `json:"pool_address"`
		Token0Address string `json:"token0_address"`
		Token1Address string `json:"token1_address"`
		TxHash        string `json:"tx_hash"`
		Origin        string `json:"origin"`
		BlockNumber   int64  `json:"block_number"`
		Limit         int    `json:"limit"`
		OffSet        int    `json:"offset"`
	}{
		Limit:  10,
		OffSet: 0,
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		result := &utils.HttpResult{}
		result.Code = 400
		result.Msg = err.Error()
		c.JSON(http.StatusOK, result)
		return
	}

	filter := &models.Swap{
		PoolAddress:   params.PoolAddress,
		Token0Address: params.Token0Address,
		Token1Address: params.Token1Address,
		TxHash:        params.TxHash,
		Origin:        params.Origin,
		BlockNumber:   params.BlockNumber,
	}

	swaps := make([]*models.Swap, 0)
	total := int64(0)
	err := r.dbc.DB.Model(&models.Swap{}).
		Where(filter).
		Count(&total).
		Order("id desc").
		Limit(params.Limit).
		Offset(params.OffSet).
		Find(&swaps).Error

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
	result.Data = swaps
	result.Total = total

	c.JSON(http.StatusOK, result)
}

func (r *SwapRouter) Pools(c *gin.Context) {
	params := &struct {
		Address       string `json:"address"`
		Token0Address string `json:"token0_address"`
		Token1Address string `json:"token1_address"`
		Limit         int    `json:"limit"`
		OffSet        int    `json:"offset"`
	}{
		Limit:  10,
		OffSet: 0,
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		result := &utils.HttpResult{}
		result.Code = 400
		result.Msg = err.Error()
		c.JSON(http.StatusOK, result)
		return
	}

	filter := &models.Pool{
		Address:       params.Address,
		Token0Address: params.Token0Address,
		Token1Address: params.Token1Address,
	}

	pools := make([]*models.Pool, 0)
	total := int64(0)
	err := r.dbc.DB.Model(&models.Pool{}).
		Where(filter).
		Count(&total).
		Order("total_value_locked_usd desc").
		Limit(params.Limit).
		Offset(params.OffSet).
		Find(&pools).Error

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
	result.Data = pools
	result.Total = total

	c.JSON(http.StatusOK, result)
}

func (r *SwapRouter) Tokens(c *gin.Context) {
	params := &struct {
		Address string `json:"address"`
		Symbol  string `json:"symbol"`
		Limit   int    `json:"limit"`
		OffSet  int    `json:"offset"`
	}{
		Limit:  10,
		OffSet: 0,
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		result := &utils.HttpResult{}
		result.Code = 400
		result.Msg = err.Error()
		c.JSON(http.StatusOK, result)
		return
	}

	filter := &models.Token{
		Address: params.Address,
		Symbol:  params.Symbol,
	}

	tokens := make([]*models.Token, 0)
	total := int64(0)
	err := r.dbc.DB.Model(&models.Token{}).
		Where(filter).
		Count(&total).
		Order("volume_usd desc").
		Limit(params.Limit).
		Offset(params.OffSet).
		Find(&tokens).Error

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
	result.Data = tokens
	result.Total = total

	c.JSON(http.StatusOK, result)
}

// Charts serves bucket rollups for one pool or token at one granularity.
func (r *SwapRouter) Charts(c *gin.Context) {
	params := &struct {
		PoolAddress  string `json:"pool_address"`
		TokenAddress string `json:"token_address"`
		WindowSecs   int64  `json:"window_secs"`
		From         int64  `json:"from"`
		To           int64  `json:"to"`
		Limit        int    `json:"limit"`
	}{
		WindowSecs: 3600,
		Limit:      500,
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		result := &utils.HttpResult{}
		result.Code = 400
		result.Msg = err.Error()
		c.JSON(http.StatusOK, result)
		return
	}

	result := &utils.HttpResult{}

	switch {
	case params.PoolAddress != "":
		buckets := make([]*models.PoolBucket, 0)
		q := r.dbc.DB.Model(&models.PoolBucket{}).
			Where("pool_address = ? and window_secs = ?", params.PoolAddress, params.WindowSecs)
		if params.From > 0 {
			q = q.Where("bucket_start >= ?", params.From)
		}
		if params.To > 0 {
			q = q.Where("bucket_start < ?", params.To)
		}
		if err := q.Order("bucket_start asc").Limit(params.Limit).Find(&buckets).Error; err != nil {
			result.Code = 500
			result.Msg = "server error"
			c.JSON(http.StatusInternalServerError, result)
			return
		}
		result.Data = buckets
		result.Total = int64(len(buckets))

	case params.TokenAddress != "":
		buckets := make([]*models.TokenBucket, 0)
		q := r.dbc.DB.Model(&models.TokenBucket{}).
			Where("token_address = ? and window_secs = ?", params.TokenAddress, params.WindowSecs)
		if params.From > 0 {
			q = q.Where("bucket_start >= ?", params.From)
		}
		if params.To > 0 {
			q = q.Where("bucket_start < ?", params.To)
		}
		if err := q.Order("bucket_start asc").Limit(params.Limit).Find(&buckets).Error; err != nil {
			result.Code = 500
			result.Msg = "server error"
			c.JSON(http.StatusInternalServerError, result)
			return
		}
		result.Data = buckets
		result.Total = int64(len(buckets))

	default:
		result.Code = 400
		result.Msg = "pool_address or token_address required"
		c.JSON(http.StatusOK, result)
		return
	}

	result.Code = 200
	result.Msg = "success"
	c.JSON(http.StatusOK, result)
}
