package indexer

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"amm-indexer/config"
	"amm-indexer/models"
	"amm-indexer/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wethAddress  = "0xaaa0000000000000000000000000000000000001"
	usdcAddress  = "0xbbb0000000000000000000000000000000000001"
	tokenA       = "0x1110000000000000000000000000000000000001"
	tokenB       = "0x2220000000000000000000000000000000000001"
	poolAB       = "0x3330000000000000000000000000000000000001"
	poolWethUsdc = "0x4440000000000000000000000000000000000001"
	stablePool   = "0xccc0000000000000000000000000000000000001"
)

func newTestIndexer(t *testing.T) (*Indexer, *storage.DBClient) {
	t.Helper()

	db := storage.NewSqliteClient(config.SqliteConfig{Dir: t.TempDir()})
	require.NoError(t, db.AutoMigrate())

	chain := testChainConfig()
	ix := NewIndexer(context.Background(), &sync.WaitGroup{}, db, nil, chain)
	return ix, db
}

func seedToken(t *testing.T, db *storage.DBClient, address string, decimals int32, derivedETH decimal.Decimal) {
	t.Helper()
	require.NoError(t, db.DB.Create(&models.Token{
		Address:     address,
		Decimals:    decimals,
		TotalSupply: models.NewBigInt(nil),
		DerivedETH:  derivedETH,
	}).Error)
}

func seedPool(t *testing.T, db *storage.DBClient, address, token0, token1 string, feeTier int64) {
	t.Helper()
	require.NoError(t, db.DB.Create(&models.Pool{
		Address:       address,
		Token0Address: token0,
		Token1Address: token1,
		FeeTier:       feeTier,
		Liquidity:     models.NewBigInt(big.NewInt(1000)),
		SqrtPrice:     models.NewBigInt(nil),
	}).Error)
}

func swapEvent(pool string, amount0, amount1 *big.Int, logIndex int64) *models.SwapEvent {
	return &models.SwapEvent{
		PoolAddress:  pool,
		Sender:       "0x5550000000000000000000000000000000000001",
		Recipient:    "0x5550000000000000000000000000000000000002",
		Origin:       "0x5550000000000000000000000000000000000001",
		Amount0:      models.NewBigInt(amount0),
		Amount1:      models.NewBigInt(amount1),
		SqrtPriceX96: models.NewBigInt(new(big.Int).Lsh(big.NewInt(1), 96)),
		Liquidity:    models.NewBigInt(big.NewInt(2000)),
		Tick:         5,
		TxHash:       "0xdeadbeef",
		TxIndex:      0,
		LogIndex:     logIndex,
		BlockNumber:  100,
		Timestamp:    1_700_000_000,
		GasUsed:      120_000,
		GasPrice:     models.NewBigInt(big.NewInt(1)),
	}
}

func TestHandleSwapEndToEnd(t *testing.T) {
	ix, db := newTestIndexer(t)

	// pool A/B: token A has 18 decimals, token B has 6, fee tier 500
	seedToken(t, db, tokenA, 18, decimal.Zero)
	seedToken(t, db, tokenB, 6, decimal.Zero)
	seedPool(t, db, poolAB, tokenA, tokenB, 500)

	amount0, _ := new(big.Int).SetString("1000000000000000000", 10) // +1.0 A in
	amount1 := big.NewInt(-2_000_000)                               // -2.0 B out

	require.NoError(t, ix.ProcessEvent(swapEvent(poolAB, amount0, amount1, 7)))

	swap := &models.Swap{}
	require.NoError(t, db.DB.Where("swap_id = ?", "0xdeadbeef-7").First(swap).Error)
	assert.Equal(t, "1", swap.Amount0.String())
	assert.Equal(t, "-2", swap.Amount1.String())
	assert.Equal(t, int32(5), swap.Tick)
	assert.Equal(t, poolAB, swap.PoolAddress)

	pool := &models.Pool{}
	require.NoError(t, db.DB.Where("address = ?", poolAB).First(pool).Error)
	assert.Equal(t, "1", pool.VolumeToken0.String())
	assert.Equal(t, "2", pool.VolumeToken1.String())
	assert.Equal(t, int64(1), pool.TxCount)
	assert.Equal(t, int32(5), pool.Tick)
	assert.Equal(t, "2000", pool.Liquidity.String())

	token := &models.Token{}
	require.NoError(t, db.DB.Where("address = ?", tokenA).First(token).Error)
	assert.Equal(t, "1", token.Volume.String())
	token = &models.Token{}
	require.NoError(t, db.DB.Where("address = ?", tokenB).First(token).Error)
	assert.Equal(t, "2", token.Volume.String())

	factory := &models.Factory{}
	require.NoError(t, db.DB.Where("address = ?", ix.chain.FactoryAddress).First(factory).Error)
	assert.Equal(t, int64(1), factory.TxCount)

	transaction := &models.Transaction{}
	require.NoError(t, db.DB.Where("tx_hash = ?", "0xdeadbeef").First(transaction).Error)
	assert.Equal(t, int64(100), transaction.BlockNumber)
}

func TestHandleSwapAdditivity(t *testing.T) {
	ix, db := newTestIndexer(t)

	seedToken(t, db, tokenA, 18, decimal.Zero)
	seedToken(t, db, tokenB, 6, decimal.Zero)
	seedPool(t, db, poolAB, tokenA, tokenB, 500)

	one, _ := new(big.Int).SetString("1000000000000000000", 10)
	for i := int64(0); i < 3; i++ {
		require.NoError(t, ix.ProcessEvent(swapEvent(poolAB, one, big.NewInt(-2_000_000), i)))
	}

	pool := &models.Pool{}
	require.NoError(t, db.DB.Where("address = ?", poolAB).First(pool).Error)
	assert.Equal(t, "3", pool.VolumeToken0.String())
	assert.Equal(t, "6", pool.VolumeToken1.String())
	assert.Equal(t, int64(3), pool.TxCount)

	factory := &models.Factory{}
	require.NoError(t, db.DB.Where("address = ?", ix.chain.FactoryAddress).First(factory).Error)
	assert.Equal(t, int64(3), factory.TxCount)

	var swaps int64
	require.NoError(t, db.DB.Model(&models.Swap{}).Count(&swaps).Error)
	assert.Equal(t, int64(3), swaps)
}

func TestHandleSwapBuckets(t *testing.T) {
	ix, db := newTestIndexer(t)

	seedToken(t, db, tokenA, 18, decimal.Zero)
	seedToken(t, db, tokenB, 6, decimal.Zero)
	seedPool(t, db, poolAB, tokenA, tokenB, 500)

	one, _ := new(big.Int).SetString("1000000000000000000", 10)

	ev := swapEvent(poolAB, one, big.NewInt(-2_000_000), 0)
	ev.Timestamp = 1_700_000_000
	require.NoError(t, ix.ProcessEvent(ev))

	// second event in the same minute accumulates into the same bucket
	ev = swapEvent(poolAB, one, big.NewInt(-2_000_000), 1)
	ev.Timestamp = 1_700_000_010
	require.NoError(t, ix.ProcessEvent(ev))

	// third event past the minute boundary opens the adjacent bucket
	ev = swapEvent(poolAB, one, big.NewInt(-2_000_000), 2)
	ev.Timestamp = 1_700_000_060
	require.NoError(t, ix.ProcessEvent(ev))

	var minuteBuckets []*models.PoolBucket
	require.NoError(t, db.DB.
		Where("pool_address = ? and window_secs = ?", poolAB, int64(60)).
		Order("bucket_start asc").
		Find(&minuteBuckets).Error)
	require.Len(t, minuteBuckets, 2)
	assert.Equal(t, minuteBuckets[0].BucketStart+60, minuteBuckets[1].BucketStart)
	assert.Equal(t, "2", minuteBuckets[0].VolumeToken0.String())
	assert.Equal(t, int64(2), minuteBuckets[0].TxCount)
	assert.Equal(t, "1", minuteBuckets[1].VolumeToken0.String())

	// all three land in one day bucket, for the pool and market-wide
	dayBucket := &models.PoolBucket{}
	require.NoError(t, db.DB.
		Where("pool_address = ? and window_secs = ?", poolAB, int64(86400)).
		First(dayBucket).Error)
	assert.Equal(t, "3", dayBucket.VolumeToken0.String())

	factoryDay := &models.FactoryDayData{}
	require.NoError(t, db.DB.Where("factory_address = ?", ix.chain.FactoryAddress).First(factoryDay).Error)
	assert.Equal(t, int64(3), factoryDay.TxCount)

	// each token bucket accumulates its own token's absolute amount
	bBucket := &models.TokenBucket{}
	require.NoError(t, db.DB.
		Where("token_address = ? and window_secs = ?", tokenB, int64(60)).
		Order("bucket_start asc").
		First(bBucket).Error)
	assert.Equal(t, "4", bBucket.Volume.String())
}

func TestHandleSwapDenylist(t *testing.T) {
	ix, db := newTestIndexer(t)

	one := big.NewInt(1_000_000)
	require.NoError(t, ix.ProcessEvent(swapEvent(badPricingPool, one, one, 0)))

	var count int64
	require.NoError(t, db.DB.Model(&models.Swap{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.DB.Model(&models.Factory{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.DB.Model(&models.Bundle{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestHandleSwapMissingToken(t *testing.T) {
	ix, db := newTestIndexer(t)

	// pool exists but token1's metadata was never indexed
	seedToken(t, db, tokenA, 18, decimal.Zero)
	seedPool(t, db, poolAB, tokenA, "0x9990000000000000000000000000000000000009", 500)

	one, _ := new(big.Int).SetString("1000000000000000000", 10)
	require.NoError(t, ix.ProcessEvent(swapEvent(poolAB, one, big.NewInt(-2_000_000), 0)))

	var count int64
	require.NoError(t, db.DB.Model(&models.Swap{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	pool := &models.Pool{}
	require.NoError(t, db.DB.Where("address = ?", poolAB).First(pool).Error)
	assert.Equal(t, int64(0), pool.TxCount)
	assert.True(t, pool.VolumeToken0.IsZero())
}

func TestHandleSwapCorruptEvent(t *testing.T) {
	ix, _ := newTestIndexer(t)

	ev := swapEvent(poolAB, big.NewInt(1), big.NewInt(-1), 0)
	ev.Amount0 = nil
	assert.Error(t, ix.ProcessEvent(ev))

	ev = swapEvent(poolAB, big.NewInt(1), big.NewInt(-1), 0)
	ev.SqrtPriceX96 = models.NewBigInt(big.NewInt(-5))
	assert.Error(t, ix.ProcessEvent(ev))
}

func TestFindEthPerTokenSelection(t *testing.T) {
	ix, db := newTestIndexer(t)

	seedToken(t, db, wethAddress, 18, decimal.NewFromInt(1))
	seedToken(t, db, tokenA, 18, decimal.Zero)

	makePool := func(address string, wethLocked int64, wethPrice int64) {
		require.NoError(t, db.DB.Create(&models.Pool{
			Address:                address,
			Token0Address:          tokenA,
			Token1Address:          wethAddress,
			Liquidity:              models.NewBigInt(big.NewInt(1)),
			SqrtPrice:              models.NewBigInt(nil),
			Token1Price:            decimal.NewFromInt(wethPrice),
			TotalValueLockedToken1: decimal.NewFromInt(wethLocked),
		}).Error)
	}

	// lowest address but below the 60 ETH liquidity floor
	makePool("0x5550000000000000000000000000000000000000", 50, 9)
	// deepest eligible pool
	makePool("0x6660000000000000000000000000000000000000", 100, 5)
	// equally deep: the tie goes to the lower address
	makePool("0x7770000000000000000000000000000000000000", 100, 7)

	bundle := &models.Bundle{EthPriceUSD: decimal.NewFromInt(2000)}
	token := &models.Token{}
	require.NoError(t, db.DB.Where("address = ?", tokenA).First(token).Error)

	derived, err := ix.findEthPerToken(db.DB, token, bundle, map[string]*models.Token{})
	require.NoError(t, err)
	assert.Equal(t, "5", derived.String())
}

func TestFindEthPerTokenBelowFloor(t *testing.T) {
	ix, db := newTestIndexer(t)

	seedToken(t, db, wethAddress, 18, decimal.NewFromInt(1))
	seedToken(t, db, tokenA, 18, decimal.Zero)
	require.NoError(t, db.DB.Create(&models.Pool{
		Address:                "0x5550000000000000000000000000000000000000",
		Token0Address:          tokenA,
		Token1Address:          wethAddress,
		Liquidity:              models.NewBigInt(big.NewInt(1)),
		SqrtPrice:              models.NewBigInt(nil),
		Token1Price:            decimal.NewFromInt(9),
		TotalValueLockedToken1: decimal.NewFromInt(59),
	}).Error)

	token := &models.Token{}
	require.NoError(t, db.DB.Where("address = ?", tokenA).First(token).Error)

	bundle := &models.Bundle{EthPriceUSD: decimal.NewFromInt(2000)}
	derived, err := ix.findEthPerToken(db.DB, token, bundle, map[string]*models.Token{})
	require.NoError(t, err)
	assert.True(t, derived.IsZero())
}

func TestHandleSwapTrackedVolume(t *testing.T) {
	ix, db := newTestIndexer(t)

	// whitelisted pair priced via the designated stable pool at 2000 USD
	seedToken(t, db, wethAddress, 18, decimal.NewFromInt(1))
	seedToken(t, db, usdcAddress, 6, decimal.New(5, -4)) // 1/2000
	seedPool(t, db, poolWethUsdc, wethAddress, usdcAddress, 3000)

	require.NoError(t, db.DB.Create(&models.Bundle{ID: 1, EthPriceUSD: decimal.NewFromInt(2000)}).Error)
	require.NoError(t, db.DB.Create(&models.Pool{
		Address:       stablePool,
		Token0Address: usdcAddress,
		Token1Address: wethAddress,
		FeeTier:       500,
		Liquidity:     models.NewBigInt(big.NewInt(1000)),
		SqrtPrice:     models.NewBigInt(nil),
		Token0Price:   decimal.NewFromInt(2000),
	}).Error)

	oneWeth, _ := new(big.Int).SetString("1000000000000000000", 10)
	usdcOut := big.NewInt(-2_000_000_000) // 2000 USDC
	require.NoError(t, ix.ProcessEvent(swapEvent(poolWethUsdc, oneWeth, usdcOut, 0)))

	// both legs whitelisted: tracked is the average of both sides
	swap := &models.Swap{}
	require.NoError(t, db.DB.Where("swap_id = ?", "0xdeadbeef-0").First(swap).Error)
	assert.Equal(t, "2000", swap.AmountUSD.String())

	factory := &models.Factory{}
	require.NoError(t, db.DB.Where("address = ?", ix.chain.FactoryAddress).First(factory).Error)
	assert.Equal(t, "2000", factory.TotalVolumeUSD.String())
	assert.Equal(t, "2000", factory.UntrackedVolumeUSD.String())
	// fee tier 3000: 0.30% of tracked volume
	assert.Equal(t, "6", factory.TotalFeesUSD.String())
	assert.Equal(t, "1", factory.TotalVolumeETH.String())

	pool := &models.Pool{}
	require.NoError(t, db.DB.Where("address = ?", poolWethUsdc).First(pool).Error)
	assert.Equal(t, "2000", pool.VolumeUSD.String())
	assert.Equal(t, "6", pool.FeesUSD.String())

	// bundle price re-read from the designated pool after the swap
	bundle := &models.Bundle{}
	require.NoError(t, db.DB.Where("id = ?", 1).First(bundle).Error)
	assert.Equal(t, "2000", bundle.EthPriceUSD.String())

	// wrapped native is priced at 1 by definition, stablecoins at 1/bundle
	token := &models.Token{}
	require.NoError(t, db.DB.Where("address = ?", wethAddress).First(token).Error)
	assert.Equal(t, "1", token.DerivedETH.String())
	token = &models.Token{}
	require.NoError(t, db.DB.Where("address = ?", usdcAddress).First(token).Error)
	assert.Equal(t, "0.0005", token.DerivedETH.String())
}
