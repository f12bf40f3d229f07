package storage

import (
	"encoding/json"
	"fmt"

	"amm-indexer/models"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	journalPrefix = "evt-"
	checkpointKey = "chk-last"
)

// Journal is the leveldb-backed swap event log. Keys are zero-padded
// (block, txIndex, logIndex) triples so lexicographic iteration equals
// chain order, which is what makes replay deterministic.
type Journal struct {
	ldb *leveldb.DB
}

func NewJournal(path string) (*Journal, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("leveldb open err: %s", err.Error())
	}
	return &Journal{ldb: ldb}, nil
}

func (j *Journal) Close() error {
	return j.ldb.Close()
}

func EventKey(blockNumber, txIndex, logIndex int64) string {
	return fmt.Sprintf("%s%012d-%06d-%06d", journalPrefix, blockNumber, txIndex, logIndex)
}

func (j *Journal) Append(ev *models.SwapEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("journal marshal err: %s", err.Error())
	}

	key := EventKey(ev.BlockNumber, ev.TxIndex, ev.LogIndex)
	if err := j.ldb.Put([]byte(key), data, nil); err != nil {
		return fmt.Errorf("journal put err: %s", err.Error())
	}
	return nil
}

// Checkpoint returns the key of the last processed event, or "" when the
// journal has never been consumed.
func (j *Journal) Checkpoint() (string, error) {
	data, err := j.ldb.Get([]byte(checkpointKey), nil)
	if err == leveldb.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("journal checkpoint err: %s", err.Error())
	}
	return string(data), nil
}

func (j *Journal) SetCheckpoint(key string) error {
	if err := j.ldb.Put([]byte(checkpointKey), []byte(key), nil); err != nil {
		return fmt.Errorf("journal set checkpoint err: %s", err.Error())
	}
	return nil
}

// Iterate walks events in chain order, starting strictly after the given
// key ("" starts from the beginning). fn receives each event's key and
// decoded payload; a non-nil return stops the walk.
func (j *Journal) Iterate(after string, fn func(key string, ev *models.SwapEvent) error) error {
	iter := j.ldb.NewIterator(util.BytesPrefix([]byte(journalPrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		key := string(iter.Key())
		if after != "" && key <= after {
			continue
		}

		ev := &models.SwapEvent{}
		if err := json.Unmarshal(iter.Value(), ev); err != nil {
			return fmt.Errorf("journal unmarshal err: %s key: %s", err.Error(), key)
		}

		if err := fn(key, ev); err != nil {
			return err
		}
	}
	return iter.Error()
}
