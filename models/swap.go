package models

import (
	"github.com/shopspring/decimal"
)

// Swap is the immutable record of one swap event. The primary identifier is
// "{txHash}-{logIndex}" and a row is written exactly once.
type Swap struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	SwapID        string          `gorm:"uniqueIndex;size:80" json:"swap_id"`
	TxHash        string          `gorm:"index;size:66" json:"tx_hash"`
	Timestamp     int64           `gorm:"index" json:"timestamp"`
	BlockNumber   int64           `gorm:"index" json:"block_number"`
	PoolAddress   string          `gorm:"index;size:66" json:"pool_address"`
	Token0Address string          `gorm:"index;size:66" json:"token0_address"`
	Token1Address string          `gorm:"index;size:66" json:"token1_address"`
	Sender        string          `gorm:"size:66" json:"sender"`
	Recipient     string          `gorm:"size:66" json:"recipient"`
	Origin        string          `gorm:"index;size:66" json:"origin"`
	Amount0       decimal.Decimal `gorm:"type:decimal(65,30)" json:"amount0"`
	Amount1       decimal.Decimal `gorm:"type:decimal(65,30)" json:"amount1"`
	AmountUSD     decimal.Decimal `gorm:"type:decimal(65,30)" json:"amount_usd"`
	SqrtPriceX96  *BigInt         `gorm:"type:varchar(80);default:'0'" json:"sqrt_price_x96"`
	Tick          int32           `json:"tick"`
	LogIndex      int64           `json:"log_index"`
}

func (Swap) TableName() string {
	return "swap"
}

// Transaction is created lazily by the first event seen for a chain
// transaction and never mutated afterwards.
type Transaction struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	TxHash      string  `gorm:"uniqueIndex;size:66" json:"tx_hash"`
	BlockNumber int64   `gorm:"index" json:"block_number"`
	Timestamp   int64   `json:"timestamp"`
	GasUsed     int64   `json:"gas_used"`
	GasPrice    *BigInt `gorm:"type:varchar(80);default:'0'" json:"gas_price"`
}

func (Transaction) TableName() string {
	return "transaction"
}
