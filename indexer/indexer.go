package indexer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"amm-indexer/config"
	"amm-indexer/metrics"
	"amm-indexer/models"
	"amm-indexer/storage"

	"github.com/dogecoinw/go-dogecoin/log"
)

// Notifier receives every committed swap. Delivery is fire-and-forget:
// implementations must not block and their failures are not observed.
type Notifier interface {
	NotifySwap(swap *models.Swap)
}

// Indexer is the sequential swap worker. Events are applied one at a time
// in chain order; aggregates are a pure function of (stored state, event),
// so replaying the journal from any consistent snapshot reproduces the
// same records.
type Indexer struct {
	ctx context.Context
	wg  *sync.WaitGroup

	dbc     *storage.DBClient
	journal *storage.Journal
	chain   config.ChainConfig

	whitelist   map[string]bool
	stablecoins map[string]bool
	denylist    map[string]bool

	notifiers []Notifier
}

func NewIndexer(ctx context.Context, wg *sync.WaitGroup, dbc *storage.DBClient, journal *storage.Journal, chain config.ChainConfig) *Indexer {
	chain.FactoryAddress = strings.ToLower(chain.FactoryAddress)
	chain.WrappedNativeAddress = strings.ToLower(chain.WrappedNativeAddress)
	chain.StablecoinWrappedNativePool = strings.ToLower(chain.StablecoinWrappedNativePool)

	ix := &Indexer{
		ctx:         ctx,
		wg:          wg,
		dbc:         dbc,
		journal:     journal,
		chain:       chain,
		whitelist:   addressSet(chain.WhitelistTokens),
		stablecoins: addressSet(chain.StablecoinAddresses),
		denylist:    addressSet(chain.DenylistPools),
	}
	return ix
}

func addressSet(addresses []string) map[string]bool {
	set := make(map[string]bool, len(addresses))
	for _, a := range addresses {
		set[strings.ToLower(a)] = true
	}
	return set
}

func (ix *Indexer) AddNotifier(n Notifier) {
	ix.notifiers = append(ix.notifiers, n)
}

// Start polls the journal for new events until the context is cancelled.
func (ix *Indexer) Start() {
	defer ix.wg.Done()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		if err := ix.drain(); err != nil {
			log.Error("indexer", "drain err", err)
		}

		select {
		case <-ix.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// drain processes every journal event past the checkpoint, advancing the
// checkpoint only after the event's transaction has committed. A failing
// event stops the walk without advancing, so nothing is skipped silently.
func (ix *Indexer) drain() error {
	checkpoint, err := ix.journal.Checkpoint()
	if err != nil {
		return err
	}

	return ix.journal.Iterate(checkpoint, func(key string, ev *models.SwapEvent) error {
		if err := ix.ProcessEvent(ev); err != nil {
			return fmt.Errorf("process %s err: %s", key, err.Error())
		}

		if err := ix.journal.SetCheckpoint(key); err != nil {
			return err
		}

		metrics.SetLastBlock(ev.BlockNumber)
		return nil
	})
}

// ProcessEvent applies one swap event inside its own transaction. All
// mutations commit together or the event leaves no trace.
func (ix *Indexer) ProcessEvent(ev *models.SwapEvent) error {
	if err := validateEvent(ev); err != nil {
		metrics.IncError("validate")
		return err
	}

	start := time.Now()

	tx := ix.dbc.DB.Begin()
	swap, err := ix.handleSwap(tx, ev)
	if err != nil {
		tx.Rollback()
		metrics.IncError("handle")
		return err
	}

	// a skipped event must leave no trace at all
	if swap == nil {
		tx.Rollback()
		return nil
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		metrics.IncError("commit")
		return fmt.Errorf("commit err: %s", err.Error())
	}

	metrics.ObserveHandle(time.Since(start).Seconds())

	metrics.IncProcessed()
	for _, n := range ix.notifiers {
		n.NotifySwap(swap)
	}
	return nil
}

// validateEvent rejects events with missing numeric payloads. Such an event
// is upstream corruption and must fail loudly, not degrade into zeros.
func validateEvent(ev *models.SwapEvent) error {
	if ev.Amount0 == nil || ev.Amount1 == nil {
		return fmt.Errorf("corrupt event %s-%d: missing amounts", ev.TxHash, ev.LogIndex)
	}
	if ev.SqrtPriceX96 == nil || ev.Liquidity == nil {
		return fmt.Errorf("corrupt event %s-%d: missing pool state", ev.TxHash, ev.LogIndex)
	}
	if ev.SqrtPriceX96.Int().Sign() < 0 || ev.Liquidity.Int().Sign() < 0 {
		return fmt.Errorf("corrupt event %s-%d: negative unsigned field", ev.TxHash, ev.LogIndex)
	}
	if ev.PoolAddress == "" || ev.TxHash == "" {
		return fmt.Errorf("corrupt event %s-%d: missing identifiers", ev.TxHash, ev.LogIndex)
	}
	return nil
}
