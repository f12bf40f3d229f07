package indexer

import (
	"fmt"
	"strings"

	"amm-indexer/metrics"
	"amm-indexer/models"
	"amm-indexer/utils"

	"github.com/dogecoinw/go-dogecoin/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// badPricingPool is a known-corrupted pool; its events are dropped before
// any state is touched.
const badPricingPool = "0x9663f2ca0454accad3e094448ea6f77443880454"

var two = decimal.NewFromInt(2)

// handleSwap applies one swap event to every derived record. It must run
// inside a single transaction: either every mutation lands or none does.
//
// Ordering is load-bearing. Volume attribution uses the derived prices as
// stored before this event; the bundle price and both tokens' derived
// prices are refreshed only afterwards, from the already-updated pool row,
// and the TVL fields are revalued with those fresh prices.
func (ix *Indexer) handleSwap(tx *gorm.DB, ev *models.SwapEvent) (*models.Swap, error) {
	poolAddress := strings.ToLower(ev.PoolAddress)
	if poolAddress == badPricingPool || ix.denylist[poolAddress] {
		metrics.IncSkipped("denylist")
		log.Debug("indexer", "skip", "denylisted pool", "pool", poolAddress)
		return nil, nil
	}

	bundle, err := ix.dbc.LoadBundle(tx)
	if err != nil {
		return nil, err
	}
	factory, err := ix.dbc.LoadFactory(tx, ix.chain.FactoryAddress)
	if err != nil {
		return nil, err
	}

	pool, err := ix.dbc.PoolByAddress(tx, poolAddress)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		metrics.IncSkipped("pool")
		log.Warn("indexer", "skip", "unknown pool", "pool", poolAddress, "tx_hash", ev.TxHash)
		return nil, nil
	}

	token0, err := ix.dbc.TokenByAddress(tx, pool.Token0Address)
	if err != nil {
		return nil, err
	}
	token1, err := ix.dbc.TokenByAddress(tx, pool.Token1Address)
	if err != nil {
		return nil, err
	}
	if token0 == nil || token1 == nil {
		metrics.IncSkipped("token")
		log.Warn("indexer", "skip", "missing token metadata", "pool", poolAddress, "tx_hash", ev.TxHash)
		return nil, nil
	}

	// token deltas are signed; volume wants absolute values
	amount0 := utils.ToDecimal(ev.Amount0.Int(), token0.Decimals)
	amount1 := utils.ToDecimal(ev.Amount1.Int(), token1.Decimals)
	amount0Abs := amount0.Abs()
	amount1Abs := amount1.Abs()

	amount0ETH := amount0Abs.Mul(token0.DerivedETH)
	amount1ETH := amount1Abs.Mul(token1.DerivedETH)
	amount0USD := amount0ETH.Mul(bundle.EthPriceUSD)
	amount1USD := amount1ETH.Mul(bundle.EthPriceUSD)

	// halve: a swap counts its value on both legs
	amountTotalUSDTracked := utils.SafeDiv(ix.trackedAmountUSD(amount0Abs, token0, amount1Abs, token1, bundle), two)
	amountTotalETHTracked := utils.SafeDiv(amountTotalUSDTracked, bundle.EthPriceUSD)
	amountTotalUSDUntracked := utils.SafeDiv(amount0USD.Add(amount1USD), two)

	// fee tiers are hundredths of a basis point
	feeRate := decimal.New(pool.FeeTier, -6)
	feesETH := amountTotalETHTracked.Mul(feeRate)
	feesUSD := amountTotalUSDTracked.Mul(feeRate)

	factory.TxCount++
	factory.TotalVolumeETH = factory.TotalVolumeETH.Add(amountTotalETHTracked)
	factory.TotalVolumeUSD = factory.TotalVolumeUSD.Add(amountTotalUSDTracked)
	factory.UntrackedVolumeUSD = factory.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	factory.TotalFeesETH = factory.TotalFeesETH.Add(feesETH)
	factory.TotalFeesUSD = factory.TotalFeesUSD.Add(feesUSD)

	// back out the pool's old TVL contribution; re-added after revaluation
	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Sub(pool.TotalValueLockedETH)

	pool.VolumeToken0 = pool.VolumeToken0.Add(amount0Abs)
	pool.VolumeToken1 = pool.VolumeToken1.Add(amount1Abs)
	pool.VolumeUSD = pool.VolumeUSD.Add(amountTotalUSDTracked)
	pool.UntrackedVolumeUSD = pool.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	pool.FeesUSD = pool.FeesUSD.Add(feesUSD)
	pool.TxCount++

	pool.Liquidity = ev.Liquidity
	pool.Tick = ev.Tick
	pool.SqrtPrice = ev.SqrtPriceX96
	pool.TotalValueLockedToken0 = pool.TotalValueLockedToken0.Add(amount0)
	pool.TotalValueLockedToken1 = pool.TotalValueLockedToken1.Add(amount1)

	token0.Volume = token0.Volume.Add(amount0Abs)
	token0.TotalValueLocked = token0.TotalValueLocked.Add(amount0)
	token0.VolumeUSD = token0.VolumeUSD.Add(amountTotalUSDTracked)
	token0.UntrackedVolumeUSD = token0.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	token0.FeesUSD = token0.FeesUSD.Add(feesUSD)
	token0.TxCount++

	token1.Volume = token1.Volume.Add(amount1Abs)
	token1.TotalValueLocked = token1.TotalValueLocked.Add(amount1)
	token1.VolumeUSD = token1.VolumeUSD.Add(amountTotalUSDTracked)
	token1.UntrackedVolumeUSD = token1.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	token1.FeesUSD = token1.FeesUSD.Add(feesUSD)
	token1.TxCount++

	pool.Token0Price, pool.Token1Price = sqrtPriceX96ToTokenPrices(ev.SqrtPriceX96.Int(), token0, token1)

	// persist the pool now so the price walks below see its new state
	if err := tx.Save(pool).Error; err != nil {
		return nil, fmt.Errorf("save pool err: %s", err.Error())
	}

	bundle.EthPriceUSD, err = ix.ethPriceInUSD(tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Save(bundle).Error; err != nil {
		return nil, fmt.Errorf("save bundle err: %s", err.Error())
	}
	metrics.SetEthPrice(bundle.EthPriceUSD.InexactFloat64())

	dirty := map[string]*models.Token{
		token0.Address: token0,
		token1.Address: token1,
	}
	token0.DerivedETH, err = ix.findEthPerToken(tx, token0, bundle, dirty)
	if err != nil {
		return nil, err
	}
	token1.DerivedETH, err = ix.findEthPerToken(tx, token1, bundle, dirty)
	if err != nil {
		return nil, err
	}

	// everything touched by the fresh USD rates
	pool.TotalValueLockedETH = pool.TotalValueLockedToken0.Mul(token0.DerivedETH).
		Add(pool.TotalValueLockedToken1.Mul(token1.DerivedETH))
	pool.TotalValueLockedUSD = pool.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Add(pool.TotalValueLockedETH)
	factory.TotalValueLockedUSD = factory.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	token0.TotalValueLockedUSD = token0.TotalValueLocked.Mul(token0.DerivedETH).Mul(bundle.EthPriceUSD)
	token1.TotalValueLockedUSD = token1.TotalValueLocked.Mul(token1.DerivedETH).Mul(bundle.EthPriceUSD)

	transaction, err := ix.dbc.LoadOrCreateTransaction(tx, ev.TxHash, ev.BlockNumber, ev.Timestamp, ev.GasUsed, ev.GasPrice)
	if err != nil {
		return nil, err
	}

	swap := &models.Swap{
		SwapID:        fmt.Sprintf("%s-%d", transaction.TxHash, ev.LogIndex),
		TxHash:        transaction.TxHash,
		Timestamp:     transaction.Timestamp,
		BlockNumber:   ev.BlockNumber,
		PoolAddress:   pool.Address,
		Token0Address: pool.Token0Address,
		Token1Address: pool.Token1Address,
		Sender:        ev.Sender,
		Recipient:     ev.Recipient,
		Origin:        ev.Origin,
		Amount0:       amount0,
		Amount1:       amount1,
		AmountUSD:     amountTotalUSDTracked,
		SqrtPriceX96:  ev.SqrtPriceX96,
		Tick:          ev.Tick,
		LogIndex:      ev.LogIndex,
	}

	amt := swapAmounts{
		amount0Abs:   amount0Abs,
		amount1Abs:   amount1Abs,
		trackedETH:   amountTotalETHTracked,
		trackedUSD:   amountTotalUSDTracked,
		untrackedUSD: amountTotalUSDUntracked,
		feesUSD:      feesUSD,
	}

	if err := ix.updateFactoryDayData(tx, factory, ev.Timestamp, amt); err != nil {
		return nil, err
	}
	if err := ix.updatePoolBuckets(tx, pool, ev.Timestamp, amt); err != nil {
		return nil, err
	}

	token0PriceUSD := token0.DerivedETH.Mul(bundle.EthPriceUSD)
	token1PriceUSD := token1.DerivedETH.Mul(bundle.EthPriceUSD)
	if err := ix.updateTokenBuckets(tx, token0, token0PriceUSD, ev.Timestamp, amount0Abs, amt); err != nil {
		return nil, err
	}
	if err := ix.updateTokenBuckets(tx, token1, token1PriceUSD, ev.Timestamp, amount1Abs, amt); err != nil {
		return nil, err
	}

	if err := tx.Create(swap).Error; err != nil {
		return nil, fmt.Errorf("create swap err: %s", err.Error())
	}
	if err := tx.Save(factory).Error; err != nil {
		return nil, fmt.Errorf("save factory err: %s", err.Error())
	}
	if err := tx.Save(pool).Error; err != nil {
		return nil, fmt.Errorf("save pool err: %s", err.Error())
	}
	if err := tx.Save(token0).Error; err != nil {
		return nil, fmt.Errorf("save token0 err: %s", err.Error())
	}
	if err := tx.Save(token1).Error; err != nil {
		return nil, fmt.Errorf("save token1 err: %s", err.Error())
	}

	// fire-and-forget: balance tracking must never fail the event
	ix.handleSwapForBalance(tx, ev, token0, token1, amount0, amount1)

	return swap, nil
}
