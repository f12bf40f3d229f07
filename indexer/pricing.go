package indexer

import (
	"math/big"

	"amm-indexer/models"
	"amm-indexer/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// sqrtPriceX96ToTokenPrices unpacks the pool's Q64.96 encoding of
// sqrt(token1/token0) into both spot prices. The square is taken on
// big.Int so the 192-bit intermediate cannot overflow; the decimal shift
// rescales for the tokens' differing precision.
func sqrtPriceX96ToTokenPrices(sqrtPriceX96 *big.Int, token0, token1 *models.Token) (decimal.Decimal, decimal.Decimal) {
	num := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)

	price1 := utils.SafeDiv(decimal.NewFromBigInt(num, 0), decimal.NewFromBigInt(q192, 0)).
		Mul(utils.Exp10(token0.Decimals - token1.Decimals))
	price0 := utils.SafeDiv(decimal.NewFromInt(1), price1)

	return price0, price1
}

// ethPriceInUSD reads the designated stablecoin/wrapped-native pool and
// returns the implied USD price of the wrapped native asset. Zero until
// that pool exists.
func (ix *Indexer) ethPriceInUSD(tx *gorm.DB) (decimal.Decimal, error) {
	pool, err := ix.dbc.PoolByAddress(tx, ix.chain.StablecoinWrappedNativePool)
	if err != nil {
		return decimal.Zero, err
	}
	if pool == nil {
		return decimal.Zero, nil
	}

	if ix.chain.StablecoinIsToken0 {
		return pool.Token0Price, nil
	}
	return pool.Token1Price, nil
}

// findEthPerToken derives a token's price in wrapped-native units by walking
// every pool containing it. Only pools whose counterparty is whitelisted or
// already priced are trusted, and only above the configured liquidity floor.
// Pools are scanned in ascending address order with a strict greater-than
// comparison, so ties resolve to the lowest address deterministically.
//
// dirty carries the in-flight token rows of the current event so the walk
// sees their updated derived prices before they are persisted.
func (ix *Indexer) findEthPerToken(tx *gorm.DB, token *models.Token, bundle *models.Bundle, dirty map[string]*models.Token) (decimal.Decimal, error) {
	if token.Address == ix.chain.WrappedNativeAddress {
		return decimal.NewFromInt(1), nil
	}

	if ix.stablecoins[token.Address] {
		return utils.SafeDiv(decimal.NewFromInt(1), bundle.EthPriceUSD), nil
	}

	pools, err := ix.dbc.PoolsByToken(tx, token.Address)
	if err != nil {
		return decimal.Zero, err
	}

	largestLiquidityETH := decimal.Zero
	priceSoFar := decimal.Zero

	for _, pool := range pools {
		if pool.Liquidity.Int().Sign() <= 0 {
			continue
		}

		otherAddress := pool.Token1Address
		otherTVL := pool.TotalValueLockedToken1
		otherPrice := pool.Token1Price
		if pool.Token1Address == token.Address {
			otherAddress = pool.Token0Address
			otherTVL = pool.TotalValueLockedToken0
			otherPrice = pool.Token0Price
		}

		other := dirty[otherAddress]
		if other == nil {
			other, err = ix.dbc.TokenByAddress(tx, otherAddress)
			if err != nil {
				return decimal.Zero, err
			}
		}
		if other == nil {
			continue
		}

		if !ix.whitelist[other.Address] && !other.DerivedETH.IsPositive() {
			continue
		}

		ethLocked := otherTVL.Mul(other.DerivedETH)
		if ethLocked.GreaterThan(largestLiquidityETH) && ethLocked.GreaterThan(ix.chain.MinimumEthLocked) {
			largestLiquidityETH = ethLocked
			priceSoFar = otherPrice.Mul(other.DerivedETH)
		}
	}

	return priceSoFar, nil
}

// trackedAmountUSD values the swap for manipulation-resistant volume. The
// result still counts both legs, so the caller halves it: two whitelisted
// legs net out to the average of both sides, a single whitelisted leg to
// that side's full value, no whitelisted leg to zero.
func (ix *Indexer) trackedAmountUSD(amount0Abs decimal.Decimal, token0 *models.Token, amount1Abs decimal.Decimal, token1 *models.Token, bundle *models.Bundle) decimal.Decimal {
	price0USD := token0.DerivedETH.Mul(bundle.EthPriceUSD)
	price1USD := token1.DerivedETH.Mul(bundle.EthPriceUSD)

	wl0 := ix.whitelist[token0.Address]
	wl1 := ix.whitelist[token1.Address]

	switch {
	case wl0 && wl1:
		return amount0Abs.Mul(price0USD).Add(amount1Abs.Mul(price1USD))
	case wl0:
		return amount0Abs.Mul(price0USD).Mul(decimal.NewFromInt(2))
	case wl1:
		return amount1Abs.Mul(price1USD).Mul(decimal.NewFromInt(2))
	default:
		return decimal.Zero
	}
}
