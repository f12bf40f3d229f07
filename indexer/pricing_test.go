package indexer

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"amm-indexer/config"
	"amm-indexer/models"
	"amm-indexer/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var q96 = new(big.Int).Lsh(big.NewInt(1), 96)

func testChainConfig() config.ChainConfig {
	return config.ChainConfig{
		FactoryAddress:              "0xfac0000000000000000000000000000000000000",
		WrappedNativeAddress:        "0xaaa0000000000000000000000000000000000001",
		StablecoinWrappedNativePool: "0xccc0000000000000000000000000000000000001",
		StablecoinIsToken0:          true,
		StablecoinAddresses:         []string{"0xbbb0000000000000000000000000000000000001"},
		WhitelistTokens: []string{
			"0xaaa0000000000000000000000000000000000001",
			"0xbbb0000000000000000000000000000000000001",
		},
		MinimumEthLocked: decimal.NewFromInt(60),
	}
}

func testIndexer(chain config.ChainConfig) *Indexer {
	return NewIndexer(context.Background(), &sync.WaitGroup{}, nil, nil, chain)
}

func TestSqrtPriceX96ToTokenPrices(t *testing.T) {
	t18 := &models.Token{Decimals: 18}
	t6 := &models.Token{Decimals: 6}

	// 2^96 encodes a 1:1 raw exchange rate
	p0, p1 := sqrtPriceX96ToTokenPrices(q96, t18, t18)
	assert.True(t, p0.Equal(decimal.NewFromInt(1)), "p0=%s", p0)
	assert.True(t, p1.Equal(decimal.NewFromInt(1)), "p1=%s", p1)

	// decimal difference rescales the raw rate
	p0, p1 = sqrtPriceX96ToTokenPrices(q96, t18, t6)
	assert.True(t, p1.Equal(decimal.New(1, 12)), "p1=%s", p1)
	assert.True(t, p0.Equal(decimal.New(1, -12)), "p0=%s", p0)

	// 2^97 squares to a 4:1 rate
	p0, p1 = sqrtPriceX96ToTokenPrices(new(big.Int).Lsh(big.NewInt(1), 97), t18, t18)
	assert.True(t, p1.Equal(decimal.NewFromInt(4)), "p1=%s", p1)
	assert.Equal(t, "0.25", p0.String())
}

func TestSqrtPriceReciprocal(t *testing.T) {
	t18 := &models.Token{Decimals: 18}

	// arbitrary non-round encoding: product of both prices stays at 1
	// within fixed-point rounding tolerance
	enc, _ := new(big.Int).SetString("112045541949572279837463876454", 10)
	p0, p1 := sqrtPriceX96ToTokenPrices(enc, t18, t18)

	diff := p0.Mul(p1).Sub(decimal.NewFromInt(1)).Abs()
	assert.True(t, diff.LessThan(decimal.New(1, -18)), "diff=%s", diff)
}

func TestSqrtPriceZero(t *testing.T) {
	t18 := &models.Token{Decimals: 18}

	p0, p1 := sqrtPriceX96ToTokenPrices(big.NewInt(0), t18, t18)
	assert.True(t, p0.IsZero())
	assert.True(t, p1.IsZero())
}

func TestTrackedAmountUSD(t *testing.T) {
	ix := testIndexer(testChainConfig())

	bundle := &models.Bundle{EthPriceUSD: decimal.NewFromInt(10)}
	whitelisted := &models.Token{
		Address:    "0xaaa0000000000000000000000000000000000001",
		DerivedETH: decimal.NewFromInt(1),
	}
	whitelisted2 := &models.Token{
		Address:    "0xbbb0000000000000000000000000000000000001",
		DerivedETH: decimal.NewFromInt(4),
	}
	unlisted := &models.Token{
		Address:    "0xddd0000000000000000000000000000000000001",
		DerivedETH: decimal.NewFromInt(2),
	}

	one := decimal.NewFromInt(1)

	// both legs whitelisted: halved result is the average of both sides
	tracked := ix.trackedAmountUSD(one, whitelisted, one, whitelisted2, bundle)
	assert.Equal(t, "25", utils.SafeDiv(tracked, two).String())

	// one leg whitelisted: halved result is exactly that leg
	tracked = ix.trackedAmountUSD(one, whitelisted, one, unlisted, bundle)
	assert.Equal(t, "10", utils.SafeDiv(tracked, two).String())

	tracked = ix.trackedAmountUSD(one, unlisted, one, whitelisted2, bundle)
	assert.Equal(t, "40", utils.SafeDiv(tracked, two).String())

	// no whitelisted leg: nothing tracked
	tracked = ix.trackedAmountUSD(one, unlisted, one, unlisted, bundle)
	assert.True(t, tracked.IsZero())
}

func TestFeeRate(t *testing.T) {
	// fee tiers are hundredths of a basis point: 3000 is 0.30%
	tracked := decimal.NewFromInt(1000)
	fees := tracked.Mul(decimal.New(3000, -6))
	assert.Equal(t, "3", fees.String())

	fees = tracked.Mul(decimal.New(500, -6))
	assert.Equal(t, "0.5", fees.String())
}
