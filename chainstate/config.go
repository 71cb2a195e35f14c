package chainstate

// Config fixes a chain's finality and retention policy at
// initialization time.
type Config struct {
	// CanonToTipLength is the confirmation depth: how many blocks
	// must sit on top of a block before it is treated as canon.
	CanonToTipLength uint64

	// TailLength is how many blocks behind canon are retained before
	// their records become eligible for garbage collection.
	TailLength uint64
}
