package certs

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
)

// serialBits はシリアル番号のビット数（RFC 5280 の上限 20 オクテット以内）
const serialBits = 128

// serialRegistry はプロセス内で払い出したシリアル番号を記録し、重複と 0 を除外する
type serialRegistry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var serials = &serialRegistry{seen: make(map[string]struct{})}

func (r *serialRegistry) next() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), serialBits)

	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		n, err := rand.Int(randReader, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: generate serial number: %w", ErrKeyGeneration, err)
		}
		if n.Sign() == 0 {
			continue
		}
		key := n.Text(16)
		if _, dup := r.seen[key]; dup {
			continue
		}
		r.seen[key] = struct{}{}
		return n, nil
	}
}
