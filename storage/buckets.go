package storage

import (
	"errors"
	"fmt"

	"amm-indexer/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BucketStart floors a timestamp to its window so every event inside the
// same window maps to the same bucket row.
func BucketStart(timestamp, windowSecs int64) int64 {
	return (timestamp / windowSecs) * windowSecs
}

// LoadOrCreatePoolBucket returns the bucket row for (pool, window, start).
// A fresh bucket copies the pool's current price/tick/liquidity snapshot;
// accumulator fields start at zero.
func (db *DBClient) LoadOrCreatePoolBucket(tx *gorm.DB, pool *models.Pool, windowSecs, timestamp int64) (*models.PoolBucket, error) {
	start := BucketStart(timestamp, windowSecs)

	bucket := &models.PoolBucket{}
	err := tx.Where("pool_address = ? and window_secs = ? and bucket_start = ?",
		pool.Address, windowSecs, start).First(bucket).Error
	if err == nil {
		return bucket, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("LoadOrCreatePoolBucket err: %s", err.Error())
	}

	bucket = &models.PoolBucket{
		PoolAddress: pool.Address,
		WindowSecs:  windowSecs,
		BucketStart: start,
		Liquidity:   pool.Liquidity,
		SqrtPrice:   pool.SqrtPrice,
		Tick:        pool.Tick,
		Token0Price: pool.Token0Price,
		Token1Price: pool.Token1Price,
		Open:        pool.Token0Price,
		High:        pool.Token0Price,
		Low:         pool.Token0Price,
		Close:       pool.Token0Price,
	}
	if err := tx.Create(bucket).Error; err != nil {
		return nil, fmt.Errorf("LoadOrCreatePoolBucket create err: %s", err.Error())
	}
	return bucket, nil
}

// LoadOrCreateTokenBucket returns the bucket row for (token, window, start).
// priceUSD is the token's current USD price at creation time.
func (db *DBClient) LoadOrCreateTokenBucket(tx *gorm.DB, token *models.Token, priceUSD decimal.Decimal, windowSecs, timestamp int64) (*models.TokenBucket, error) {
	start := BucketStart(timestamp, windowSecs)

	bucket := &models.TokenBucket{}
	err := tx.Where("token_address = ? and window_secs = ? and bucket_start = ?",
		token.Address, windowSecs, start).First(bucket).Error
	if err == nil {
		return bucket, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("LoadOrCreateTokenBucket err: %s", err.Error())
	}

	bucket = &models.TokenBucket{
		TokenAddress: token.Address,
		WindowSecs:   windowSecs,
		BucketStart:  start,
		PriceUSD:     priceUSD,
		Open:         priceUSD,
		High:         priceUSD,
		Low:          priceUSD,
		Close:        priceUSD,
	}
	if err := tx.Create(bucket).Error; err != nil {
		return nil, fmt.Errorf("LoadOrCreateTokenBucket create err: %s", err.Error())
	}
	return bucket, nil
}

// LoadOrCreateFactoryDayData returns the market-wide day bucket.
func (db *DBClient) LoadOrCreateFactoryDayData(tx *gorm.DB, factory *models.Factory, timestamp int64) (*models.FactoryDayData, error) {
	date := BucketStart(timestamp, 86400)

	day := &models.FactoryDayData{}
	err := tx.Where("factory_address = ? and date = ?", factory.Address, date).First(day).Error
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("LoadOrCreateFactoryDayData err: %s", err.Error())
	}

	day = &models.FactoryDayData{
		FactoryAddress:      factory.Address,
		Date:                date,
		TotalValueLockedUSD: factory.TotalValueLockedUSD,
	}
	if err := tx.Create(day).Error; err != nil {
		return nil, fmt.Errorf("LoadOrCreateFactoryDayData create err: %s", err.Error())
	}
	return day, nil
}
