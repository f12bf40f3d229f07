package models

import (
	"github.com/shopspring/decimal"
)

// Bundle is the singleton row holding the current USD price of the chain's
// wrapped native asset. Row id is always 1.
type Bundle struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	EthPriceUSD decimal.Decimal `gorm:"type:decimal(65,30)" json:"eth_price_usd"`
}

func (Bundle) TableName() string {
	return "bundle"
}

type Factory struct {
	ID                   uint            `gorm:"primarykey" json:"id"`
	Address              string          `gorm:"uniqueIndex;size:66" json:"address"`
	PoolCount            int64           `json:"pool_count"`
	TxCount              int64           `json:"tx_count"`
	TotalVolumeETH       decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_volume_eth"`
	TotalVolumeUSD       decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_volume_usd"`
	UntrackedVolumeUSD   decimal.Decimal `gorm:"type:decimal(65,30)" json:"untracked_volume_usd"`
	TotalFeesETH         decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_fees_eth"`
	TotalFeesUSD         decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_fees_usd"`
	TotalValueLockedETH  decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_eth"`
	TotalValueLockedUSD  decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_usd"`
}

func (Factory) TableName() string {
	return "factory"
}

// FactoryDayData is the market-wide day bucket.
type FactoryDayData struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	FactoryAddress      string          `gorm:"index:idx_factory_day,unique;size:66" json:"factory_address"`
	Date                int64           `gorm:"index:idx_factory_day,unique" json:"date"`
	VolumeETH           decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_eth"`
	VolumeUSD           decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_usd"`
	VolumeUSDUntracked  decimal.Decimal `gorm:"type:decimal(65,30)" json:"volume_usd_untracked"`
	FeesUSD             decimal.Decimal `gorm:"type:decimal(65,30)" json:"fees_usd"`
	TotalValueLockedUSD decimal.Decimal `gorm:"type:decimal(65,30)" json:"total_value_locked_usd"`
	TxCount             int64           `json:"tx_count"`
}

func (FactoryDayData) TableName() string {
	return "factory_day_data"
}
