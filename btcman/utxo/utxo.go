/*
This file contains filter/select operations on UTXO.
*/
package utxo

import (
	"errors"
)

// Choose some UTXO(s) for future spending.
// Collect several UTXO, the sum to be larger than (amount + fee).
// Error if cannot collect enough to satisfy the requirement.
func Select(inputs UtxosAndValues, amount uint64, fee uint64) (UtxosAndValues, error) {
	var sum uint64
	topIdx := 0
	flag := false
	for idx, item := range inputs {
		sum += item.Value
		topIdx = idx
		if sum > (amount + fee) {
			flag = true
			break
		}
	}
	if !flag {
		return nil, errors.New("cannot satisfy requirement")
	}
	return inputs[:topIdx+1], nil
}
