package main

import (
	"flag"
	"fmt"
	"math/big"
	"math/rand"
	"strings"

	"amm-indexer/models"
	"amm-indexer/storage"

	"github.com/google/uuid"
)

// Seeds the journal with synthetic swap events for local testing. Amounts
// alternate direction so pool TVL stays roughly flat over a long run.
func main() {
	var (
		journalPath string
		pool        string
		count       int
		fromBlock   int64
	)
	flag.StringVar(&journalPath, "journal", "journal", "leveldb journal path")
	flag.StringVar(&pool, "pool", "0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640", "pool address")
	flag.IntVar(&count, "count", 100, "events to generate")
	flag.Int64Var(&fromBlock, "from", 1_000_000, "first block number")
	flag.Parse()

	journal, err := storage.NewJournal(journalPath)
	if err != nil {
		fmt.Println("feeder journal error:", err)
		return
	}
	defer journal.Close()

	sqrtPrice, _ := new(big.Int).SetString("79228162514264337593543950336", 10) // 2^96, price 1:1
	liquidity := big.NewInt(1_000_000_000_000)

	for i := 0; i < count; i++ {
		amount0 := new(big.Int).Mul(big.NewInt(rand.Int63n(5)+1), big.NewInt(1_000_000_000_000_000_000))
		amount1 := new(big.Int).Neg(new(big.Int).Mul(big.NewInt(rand.Int63n(5)+1), big.NewInt(1_000_000)))
		if i%2 == 1 {
			amount0.Neg(amount0)
			amount1.Neg(amount1)
		}

		ev := &models.SwapEvent{
			PoolAddress:  pool,
			Sender:       randomAddress(),
			Recipient:    randomAddress(),
			Origin:       randomAddress(),
			Amount0:      models.NewBigInt(amount0),
			Amount1:      models.NewBigInt(amount1),
			SqrtPriceX96: models.NewBigInt(sqrtPrice),
			Liquidity:    models.NewBigInt(liquidity),
			Tick:         0,
			TxHash:       randomTxHash(),
			TxIndex:      int64(i % 10),
			LogIndex:     int64(i % 4),
			BlockNumber:  fromBlock + int64(i/4),
			Timestamp:    1_700_000_000 + int64(i)*13,
			GasUsed:      120_000,
			GasPrice:     models.NewBigInt(big.NewInt(30_000_000_000)),
		}

		if err := journal.Append(ev); err != nil {
			fmt.Println("feeder append error:", err)
			return
		}
	}

	fmt.Println("feeder done, events:", count)
}

func randomTxHash() string {
	a := strings.ReplaceAll(uuid.New().String(), "-", "")
	b := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "0x" + a + b
}

func randomAddress() string {
	a := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "0x" + a + "00000000"
}
