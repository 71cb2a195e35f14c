package chainstate

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	logger "github.com/sirupsen/logrus"

	"github.com/hashingsystems/ptokens-core/common"
	"github.com/hashingsystems/ptokens-core/database"
)

var (
	ErrNotInitialized     = errors.New("chain pointers not initialized")
	ErrAlreadyInitialized = errors.New("chain pointers already initialized")
)

// ParentLookup resolves a block hash to its parent hash. The btc side
// backs this with stored block records; the eth side with its header
// source.
type ParentLookup interface {
	Parent(hash chainhash.Hash) (chainhash.Hash, error)
}

// ParentLookupFunc adapts a plain function to ParentLookup.
type ParentLookupFunc func(hash chainhash.Hash) (chainhash.Hash, error)

func (f ParentLookupFunc) Parent(hash chainhash.Hash) (chainhash.Hash, error) {
	return f(hash)
}

// Tracker owns one chain's pointer set. All four pointers plus the
// policy scalars live in the store; the tracker carries no state of
// its own, so read-your-writes on the store is the only consistency
// it needs.
type Tracker struct {
	chain   Chain
	store   database.KeyValueStore
	parents ParentLookup
}

// ApplyResult reports which pointers moved during one block ingestion.
type ApplyResult struct {
	CanonMoved  bool
	Canon       chainhash.Hash
	CanonHeight uint64
	TailMoved   bool
	Tail        chainhash.Hash
	TailHeight  uint64
}

func NewTracker(chain Chain, store database.KeyValueStore, parents ParentLookup) *Tracker {
	return &Tracker{chain: chain, store: store, parents: parents}
}

// Initialize seeds all four pointers to the anchor block and records
// the finality policy. It refuses to run twice: the anchor is fixed
// for the bridge's lifetime.
func (t *Tracker) Initialize(anchor chainhash.Hash, anchorHeight uint64, cfg Config) error {
	ok, err := t.IsInitialized()
	if err != nil {
		return err
	}
	if ok {
		return ErrAlreadyInitialized
	}

	for _, p := range []Pointer{PointerLatest, PointerCanon, PointerAnchor, PointerTail} {
		if err := t.setPointer(p, anchor, anchorHeight); err != nil {
			return err
		}
	}
	if err := t.store.Put(canonToTipLengthKey(t.chain), common.U64ToBytes(cfg.CanonToTipLength)); err != nil {
		return err
	}
	if err := t.store.Put(tailLengthKey(t.chain), common.U64ToBytes(cfg.TailLength)); err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"chain":            t.chain.String(),
		"anchor":           anchor.String(),
		"anchorHeight":     anchorHeight,
		"canonToTipLength": cfg.CanonToTipLength,
		"tailLength":       cfg.TailLength,
	}).Info("initialized chain pointers")
	return nil
}

func (t *Tracker) IsInitialized() (bool, error) {
	_, err := t.store.Get(pointerHashKey(t.chain, PointerAnchor))
	if err == database.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Apply ingests one new chain head.
//
//  1. latest always moves to the new block.
//  2. once the new head is at least canon-to-tip-length above canon,
//     canon advances to the block exactly that depth behind the head,
//     found by walking parents back from the head.
//  3. tail follows canon at tail-length distance, never below the
//     anchor, making everything beneath it eligible for pruning.
func (t *Tracker) Apply(newHash chainhash.Hash, newHeight uint64) (*ApplyResult, error) {
	ok, err := t.IsInitialized()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}

	if err := t.setPointer(PointerLatest, newHash, newHeight); err != nil {
		return nil, err
	}

	_, canonHeight, err := t.Pointer(PointerCanon)
	if err != nil {
		return nil, err
	}
	depth, err := t.CanonToTipLength()
	if err != nil {
		return nil, err
	}

	result := &ApplyResult{}

	if newHeight >= canonHeight && newHeight-canonHeight >= depth {
		target := newHeight - depth
		if target > canonHeight {
			hash, err := t.walkBack(newHash, newHeight-target)
			if err != nil {
				return nil, fmt.Errorf("advance canon: %w", err)
			}
			if err := t.setPointer(PointerCanon, hash, target); err != nil {
				return nil, err
			}
			result.CanonMoved = true
			result.Canon = hash
			result.CanonHeight = target
			canonHeight = target

			logger.WithFields(logger.Fields{
				"chain":       t.chain.String(),
				"canon":       hash.String(),
				"canonHeight": target,
			}).Debug("canon block advanced")
		}
	}

	tailMoved, err := t.advanceTail(canonHeight)
	if err != nil {
		return nil, err
	}
	tailHash, tailHeight, err := t.Pointer(PointerTail)
	if err != nil {
		return nil, err
	}
	result.TailMoved = tailMoved
	result.Tail = tailHash
	result.TailHeight = tailHeight

	return result, nil
}

func (t *Tracker) advanceTail(canonHeight uint64) (bool, error) {
	tailLength, err := t.TailLength()
	if err != nil {
		return false, err
	}
	_, anchorHeight, err := t.Pointer(PointerAnchor)
	if err != nil {
		return false, err
	}
	_, tailHeight, err := t.Pointer(PointerTail)
	if err != nil {
		return false, err
	}

	target := anchorHeight
	if canonHeight > tailLength && canonHeight-tailLength > anchorHeight {
		target = canonHeight - tailLength
	}
	if target <= tailHeight {
		return false, nil
	}

	canonHash, _, err := t.Pointer(PointerCanon)
	if err != nil {
		return false, err
	}
	hash, err := t.walkBack(canonHash, canonHeight-target)
	if err != nil {
		return false, fmt.Errorf("advance tail: %w", err)
	}
	if err := t.setPointer(PointerTail, hash, target); err != nil {
		return false, err
	}
	return true, nil
}

// walkBack follows parent hashes for the given number of steps.
func (t *Tracker) walkBack(from chainhash.Hash, steps uint64) (chainhash.Hash, error) {
	hash := from
	for i := uint64(0); i < steps; i++ {
		parent, err := t.parents.Parent(hash)
		if err != nil {
			return chainhash.Hash{}, fmt.Errorf("parent of %s: %w", hash.String(), err)
		}
		hash = parent
	}
	return hash, nil
}

// Pointer returns the hash and height currently stored for p.
func (t *Tracker) Pointer(p Pointer) (chainhash.Hash, uint64, error) {
	hashBytes, err := t.store.Get(pointerHashKey(t.chain, p))
	if err != nil {
		return chainhash.Hash{}, 0, err
	}
	hash, err := chainhash.NewHash(hashBytes)
	if err != nil {
		return chainhash.Hash{}, 0, err
	}

	heightBytes, err := t.store.Get(pointerHeightKey(t.chain, p))
	if err != nil {
		return chainhash.Hash{}, 0, err
	}
	height, err := common.BytesToU64(heightBytes)
	if err != nil {
		return chainhash.Hash{}, 0, err
	}
	return *hash, height, nil
}

func (t *Tracker) setPointer(p Pointer, hash chainhash.Hash, height uint64) error {
	if err := t.store.Put(pointerHashKey(t.chain, p), hash[:]); err != nil {
		return err
	}
	return t.store.Put(pointerHeightKey(t.chain, p), common.U64ToBytes(height))
}

func (t *Tracker) CanonToTipLength() (uint64, error) {
	b, err := t.store.Get(canonToTipLengthKey(t.chain))
	if err != nil {
		return 0, err
	}
	return common.BytesToU64(b)
}

func (t *Tracker) TailLength() (uint64, error) {
	b, err := t.store.Get(tailLengthKey(t.chain))
	if err != nil {
		return 0, err
	}
	return common.BytesToU64(b)
}
