package indexer

import (
	"amm-indexer/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BucketWindows are the rollup granularities, in seconds: minute, 15 minute,
// 30 minute, hour, 4 hour, day. Every granularity runs through the same
// accumulator below.
var BucketWindows = []int64{60, 900, 1800, 3600, 14400, 86400}

type swapAmounts struct {
	amount0Abs   decimal.Decimal
	amount1Abs   decimal.Decimal
	trackedETH   decimal.Decimal
	trackedUSD   decimal.Decimal
	untrackedUSD decimal.Decimal
	feesUSD      decimal.Decimal
}

// updatePoolBuckets folds one swap into the pool's bucket at every window.
func (ix *Indexer) updatePoolBuckets(tx *gorm.DB, pool *models.Pool, timestamp int64, amt swapAmounts) error {
	for _, window := range BucketWindows {
		bucket, err := ix.dbc.LoadOrCreatePoolBucket(tx, pool, window, timestamp)
		if err != nil {
			return err
		}

		bucket.Liquidity = pool.Liquidity
		bucket.SqrtPrice = pool.SqrtPrice
		bucket.Tick = pool.Tick
		bucket.Token0Price = pool.Token0Price
		bucket.Token1Price = pool.Token1Price
		bucket.TotalValueLockedUSD = pool.TotalValueLockedUSD

		if pool.Token0Price.GreaterThan(bucket.High) {
			bucket.High = pool.Token0Price
		}
		if pool.Token0Price.LessThan(bucket.Low) {
			bucket.Low = pool.Token0Price
		}
		bucket.Close = pool.Token0Price

		bucket.VolumeToken0 = bucket.VolumeToken0.Add(amt.amount0Abs)
		bucket.VolumeToken1 = bucket.VolumeToken1.Add(amt.amount1Abs)
		bucket.VolumeUSD = bucket.VolumeUSD.Add(amt.trackedUSD)
		bucket.UntrackedVolumeUSD = bucket.UntrackedVolumeUSD.Add(amt.untrackedUSD)
		bucket.FeesUSD = bucket.FeesUSD.Add(amt.feesUSD)
		bucket.TxCount++

		if err := tx.Save(bucket).Error; err != nil {
			return err
		}
	}
	return nil
}

// updateTokenBuckets folds one swap into a token's bucket at every window.
// volume is the token's own absolute amount: each subject accumulates its
// own side, never the other token's.
func (ix *Indexer) updateTokenBuckets(tx *gorm.DB, token *models.Token, priceUSD decimal.Decimal, timestamp int64, volume decimal.Decimal, amt swapAmounts) error {
	for _, window := range BucketWindows {
		bucket, err := ix.dbc.LoadOrCreateTokenBucket(tx, token, priceUSD, window, timestamp)
		if err != nil {
			return err
		}

		bucket.PriceUSD = priceUSD
		bucket.TotalValueLockedUSD = token.TotalValueLockedUSD
		if priceUSD.GreaterThan(bucket.High) {
			bucket.High = priceUSD
		}
		if priceUSD.LessThan(bucket.Low) {
			bucket.Low = priceUSD
		}
		bucket.Close = priceUSD

		bucket.Volume = bucket.Volume.Add(volume)
		bucket.VolumeUSD = bucket.VolumeUSD.Add(amt.trackedUSD)
		bucket.UntrackedVolumeUSD = bucket.UntrackedVolumeUSD.Add(amt.untrackedUSD)
		bucket.FeesUSD = bucket.FeesUSD.Add(amt.feesUSD)

		if err := tx.Save(bucket).Error; err != nil {
			return err
		}
	}
	return nil
}

// updateFactoryDayData folds one swap into the market-wide day bucket.
func (ix *Indexer) updateFactoryDayData(tx *gorm.DB, factory *models.Factory, timestamp int64, amt swapAmounts) error {
	day, err := ix.dbc.LoadOrCreateFactoryDayData(tx, factory, timestamp)
	if err != nil {
		return err
	}

	day.VolumeETH = day.VolumeETH.Add(amt.trackedETH)
	day.VolumeUSD = day.VolumeUSD.Add(amt.trackedUSD)
	day.VolumeUSDUntracked = day.VolumeUSDUntracked.Add(amt.untrackedUSD)
	day.FeesUSD = day.FeesUSD.Add(amt.feesUSD)
	day.TotalValueLockedUSD = factory.TotalValueLockedUSD
	day.TxCount++

	return tx.Save(day).Error
}
