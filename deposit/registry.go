package deposit

// Registry indexes one block's deposit metadata by deposit address.
// Rebuilt from scratch for every block and discarded once the block's
// filtering is done.
type Registry map[string]Info

// BuildRegistry indexes the list by BtcDepositAddress. A duplicate
// address overwrites the earlier entry; addresses are expected unique
// within a block.
func BuildRegistry(infos []Info) Registry {
	registry := make(Registry, len(infos))
	for _, info := range infos {
		registry[info.BtcDepositAddress] = info
	}
	return registry
}

func (r Registry) Contains(address string) bool {
	_, ok := r[address]
	return ok
}
