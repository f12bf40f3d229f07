package indexer

import (
	"errors"

	"amm-indexer/models"

	"github.com/dogecoinw/go-dogecoin/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// handleSwapForBalance hands the swap to the balance ledger. A negative pool
// delta is value paid out to the recipient, a positive delta value paid in
// by the recipient; the ledger tracks the recipient's side of both legs.
// Failures are logged and swallowed so they never abort the event.
func (ix *Indexer) handleSwapForBalance(tx *gorm.DB, ev *models.SwapEvent, token0, token1 *models.Token, amount0, amount1 decimal.Decimal) {
	if err := ix.adjustBalance(tx, token0.Address, ev.Recipient, amount0.Neg(), ev.BlockNumber); err != nil {
		log.Warn("indexer", "balance update failed", err, "token", token0.Address, "tx_hash", ev.TxHash)
	}
	if err := ix.adjustBalance(tx, token1.Address, ev.Recipient, amount1.Neg(), ev.BlockNumber); err != nil {
		log.Warn("indexer", "balance update failed", err, "token", token1.Address, "tx_hash", ev.TxHash)
	}
}

func (ix *Indexer) adjustBalance(tx *gorm.DB, tokenAddress, holderAddress string, delta decimal.Decimal, blockNumber int64) error {
	if delta.IsZero() || holderAddress == "" {
		return nil
	}

	balance := &models.TokenBalance{}
	err := tx.Where("token_address = ? and holder_address = ?", tokenAddress, holderAddress).First(balance).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		balance.TokenAddress = tokenAddress
		balance.HolderAddress = holderAddress
	}

	balance.Balance = balance.Balance.Add(delta)
	balance.BlockNumber = blockNumber
	return tx.Save(balance).Error
}
