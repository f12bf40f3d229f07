package models

// SwapEvent is one swap log as delivered by the event source. Raw amounts
// are signed token deltas in native units; SqrtPriceX96 is the pool's
// Q64.96 price encoding after the swap.
type SwapEvent struct {
	PoolAddress  string  `json:"pool_address"`
	Sender       string  `json:"sender"`
	Recipient    string  `json:"recipient"`
	Origin       string  `json:"origin"`
	Amount0      *BigInt `json:"amount0"`
	Amount1      *BigInt `json:"amount1"`
	SqrtPriceX96 *BigInt `json:"sqrt_price_x96"`
	Liquidity    *BigInt `json:"liquidity"`
	Tick         int32   `json:"tick"`
	TxHash       string  `json:"tx_hash"`
	TxIndex      int64   `json:"tx_index"`
	LogIndex     int64   `json:"log_index"`
	BlockNumber  int64   `json:"block_number"`
	Timestamp    int64   `json:"timestamp"`
	GasUsed      int64   `json:"gas_used"`
	GasPrice     *BigInt `json:"gas_price"`
}
