package models

import (
	"github.com/shopspring/decimal"
)

type Pool struct {
	ID                     uint            `gorm:"primarykey" json:"id"`
	Address                string          `gorm:"uniqueIndex;size:66" json:"address"`
	Token0Address          string          `gorm:"index;size:66" json:"token0_address"`
	Token1Address          string          `gorm:"index;size:66" json:"token1_address"`
	FeeTier                int64           `json:"fee_tier"`
	CreatedAtTimestamp     int64           `json:"created_at_timestamp"`
	CreatedAtBlockNumber   int64           `json:"created_at_block_number"`
	Liquidity              *BigInt         `gorm:"type:varchar(80);default:'0'" json:"liquidity"`
	SqrtPrice              *BigInt         `gorm:"type:varchar(80);default:'0'" json:"sqrt_price"`
	Tick                   int32           `json:"tick"`
	Token0Price            decimal.Decimal `gorm:"type:decimal(65,30)" json:"token0_price"`
	Token1Price            decimal.Decimal `gorm:"type:decimal(65,30)" json:"token1_price"`
	VolumeToken0           decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_token0"`
	VolumeToken1           decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_token1"`
	VolumeUSD              decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_usd"`
	UntrackedVolumeUSD     decimal.Decimal `gorm:"type:decimal(65,30)" json:"untracked_volume_usd"`
	FeesUSD                decimal.Decimal `gorm:"type:decimal(65,30)" json:"fees_usd"`
	TxCount                int64           `json:"tx_count"`
	TotalValueLockedToken0 decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_token0"`
	TotalValueLockedToken1 decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_token1"`
	TotalValueLockedETH    decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_eth"`
	TotalValueLockedUSD    decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_usd"`
}

func (Pool) TableName() string {
	return "pool"
}

// PoolBucket is one time-window aggregate for a pool. WindowSecs is the
// bucket width, BucketStart the floor of the event timestamp to that width.
type PoolBucket struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	PoolAddress         string          `gorm:"index:idx_pool_bucket,unique;size:66" json:"pool_address"`
	WindowSecs          int64           `gorm:"index:idx_pool_bucket,unique" json:"window_secs"`
	BucketStart         int64           `gorm:"index:idx_pool_bucket,unique" json:"bucket_start"`
	Liquidity           *BigInt         `gorm:"type:varchar(80);default:'0'" json:"liquidity"`
	SqrtPrice           *BigInt         `gorm:"type:varchar(80);default:'0'" json:"sqrt_price"`
	Tick                int32           `json:"tick"`
	Token0Price         decimal.Decimal `gorm:"type:decimal(65,30)" json:"token0_price"`
	Token1Price         decimal.Decimal `gorm:"type:decimal(65,30)" json:"token1_price"`
	Open                decimal.Decimal `gorm:"type:decimal(65,30)" json:"open"`
	High                decimal.Decimal `gorm:"type:decimal(65,30)" json:"high"`
	Low                 decimal.Decimal `gorm:"type:decimal(65,30)" json:"low"`
	Close               decimal.Decimal `gorm:"type:decimal(65,30)" json:"close"`
	VolumeToken0        decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_token0"`
	VolumeToken1        decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_token1"`
	VolumeUSD           decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_usd"`
	UntrackedVolumeUSD  decimal.Decimal `gorm:"type:decimal(65,30)" json:"untracked_volume_usd"`
	FeesUSD             decimal.Decimal `gorm:"type:decimal(65,30)" json:"fees_usd"`
	TxCount             int64           `json:"tx_count"`
	TotalValueLockedUSD decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_usd"`
}

func (PoolBucket) TableName() string {
	return "pool_bucket"
}
