// This is a http type of reporter.
// It fetches data from the chain state trackers and the block record
// store and publishes it on read-only http routes.

package reporter

import (
	"net/http"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gin-gonic/gin"

	"github.com/hashingsystems/ptokens-core/btcsync"
	"github.com/hashingsystems/ptokens-core/btcvault"
	"github.com/hashingsystems/ptokens-core/chainstate"
	"github.com/hashingsystems/ptokens-core/common"
	"github.com/hashingsystems/ptokens-core/database"
)

const (
	ROUTE_HELLO   = "/hello"
	ROUTE_STATUS  = "/status"
	ROUTE_BLOCK   = "/block/:id"
	ROUTE_BALANCE = "/balance"
)

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	// upstream data sources
	store      database.KeyValueStore
	btcTracker *chainstate.Tracker
	ethTracker *chainstate.Tracker
	vault      *btcvault.TreasureVault // optional
}

func NewHttpReporter(
	serverIP string,
	serverPort string,
	store database.KeyValueStore,
	btcTracker *chainstate.Tracker,
	ethTracker *chainstate.Tracker,
	vault *btcvault.TreasureVault,
) *HttpReporter {
	return &HttpReporter{
		serverIP:   serverIP,
		serverPort: serverPort,
		store:      store,
		btcTracker: btcTracker,
		ethTracker: ethTracker,
		vault:      vault,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Define routes & handlers
	router.GET(ROUTE_HELLO, Hello)
	router.GET(ROUTE_STATUS, h.Status)
	router.GET(ROUTE_BLOCK, h.Block)
	router.GET(ROUTE_BALANCE, h.Balance)

	return router
}

// Hook up router & ip:port
func (h *HttpReporter) Run() {
	router := h.SetupRouter()
	address := h.serverIP + ":" + h.serverPort
	if err := router.Run(address); err != nil {
		panic(err)
	}
}

// Example route.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "world",
	})
}

// Status publishes the four pointers of each tracked chain.
func (h *HttpReporter) Status(c *gin.Context) {
	btc, err := trackerPointers(h.btcTracker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	eth, err := trackerPointers(h.ethTracker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"btc": btc, "eth": eth})
}

func trackerPointers(tracker *chainstate.Tracker) (gin.H, error) {
	out := gin.H{}
	for _, p := range []chainstate.Pointer{
		chainstate.PointerLatest,
		chainstate.PointerCanon,
		chainstate.PointerAnchor,
		chainstate.PointerTail,
	} {
		hash, height, err := tracker.Pointer(p)
		if err != nil {
			return nil, err
		}
		out[p.String()] = gin.H{"hash": hash.String(), "height": height}
	}
	return out, nil
}

// Block fetches the stored record of a block by hash and publishes a
// summary (no raw block body, it can be megabytes).
func (h *HttpReporter) Block(c *gin.Context) {
	hash, err := chainhash.NewHashFromStr(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad block hash"})
		return
	}

	record, err := btcsync.GetBlockRecord(h.store, *hash)
	if err == database.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "no block record found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mints := make([]gin.H, 0, len(record.MintingParams))
	for _, p := range record.MintingParams {
		mints = append(mints, gin.H{
			"amount":                 common.BigIntToHexStr(p.Amount),
			"eth_address":            p.EthAddress.Hex(),
			"originating_tx_hash":    p.OriginatingTxHash.String(),
			"originating_tx_address": p.OriginatingTxAddress,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             record.ID.String(),
		"height":         record.Height,
		"num_txs":        len(record.Block.Transactions),
		"minting_params": mints,
	})
}

// Balance publishes the vault's unspent total.
func (h *HttpReporter) Balance(c *gin.Context) {
	if h.vault == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no vault configured"})
		return
	}
	total, err := h.vault.Balance()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address": h.vault.EnclaveBtcAddress,
		"balance": total,
	})
}
