package models

import (
	"github.com/shopspring/decimal"
)

type Token struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	Address             string          `gorm:"uniqueIndex;size:66" json:"address"`
	Symbol              string          `gorm:"size:64" json:"symbol"`
	Name                string          `gorm:"size:128" json:"name"`
	Decimals            int32           `json:"decimals"`
	TotalSupply         *BigInt         `gorm:"type:varchar(80);default:'0'" json:"total_supply"`
	Volume              decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume"`
	VolumeUSD           decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_usd"`
	UntrackedVolumeUSD  decimal.Decimal `gorm:"type:decimal(65,30)" json:"untracked_volume_usd"`
	FeesUSD             decimal.Decimal `gorm:"type:decimal(65,30)" json:"fees_usd"`
	TxCount             int64           `json:"tx_count"`
	TotalValueLocked    decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked"`
	TotalValueLockedUSD decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_usd"`
	DerivedETH          decimal.Decimal `gorm:"type:decimal(65,30)" json:"derived_eth"`
}

func (Token) TableName() string {
	return "token"
}

// TokenBucket is one time-window aggregate for a token.
type TokenBucket struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	TokenAddress        string          `gorm:"index:idx_token_bucket,unique;size:66" json:"token_address"`
	WindowSecs          int64           `gorm:"index:idx_token_bucket,unique" json:"window_secs"`
	BucketStart         int64           `gorm:"index:idx_token_bucket,unique" json:"bucket_start"`
	PriceUSD            decimal.Decimal `gorm:"type:decimal(65,30)" json:"price_usd"`
	Open                decimal.Decimal `gorm:"type:decimal(65,30)" json:"open"`
	High                decimal.Decimal `gorm:"type:decimal(65,30)" json:"high"`
	Low                 decimal.Decimal `gorm:"type:decimal(65,30)" json:"low"`
	Close               decimal.Decimal `gorm:"type:decimal(65,30)" json:"close"`
	Volume              decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume"`
	VolumeUSD           decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_usd"`
	UntrackedVolumeUSD  decimal.Decimal `gorm:"type:decimal(65,30)" json:"untracked_volume_usd"`
	FeesUSD             decimal.Decimal `gorm:"type:decimal(65,30)" json:"fees_usd"`
	TotalValueLockedUSD decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_usd"`
}

func (TokenBucket) TableName() string {
	return "token_bucket"
}

// TokenBalance is the per-holder ledger maintained by the balance tracker
// handoff at the end of swap processing.
type TokenBalance struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	TokenAddress  string          `gorm:"index:idx_token_holder,unique;size:66" json:"token_address"`
	HolderAddress string          `gorm:"index:idx_token_holder,unique;size:66" json:"holder_address"`
	Balance       decimal.Decimal `gorm:"type:decimal(65,30)" json:"balance"`
	BlockNumber   int64           `json:"block_number"`
}

func (TokenBalance) TableName() string {
	return "token_balance"
}
