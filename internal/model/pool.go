package model

import (
	"fmt"
	"regexp"
)

// Pool maps a tradable asset pair to its storage table.
type Pool struct {
	Asset string
	Table string
}

// Pools is an immutable ordered pool set. Every pool the system knows
// appears here; an asset outside the set is a request-time error.
type Pools struct {
	list    []Pool
	byAsset map[string]Pool
}

// ErrUnknownPool reports an asset identifier outside the configured pool set.
type ErrUnknownPool struct {
	Asset string
}

func (e *ErrUnknownPool) Error() string {
	return fmt.Sprintf("unknown pool %q", e.Asset)
}

var tableIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// NewPools validates and freezes a pool set. Table names are restricted to
// plain lowercase identifiers so they can be spliced into DDL/DML safely.
func NewPools(list []Pool) (Pools, error) {
	if len(list) == 0 {
		return Pools{}, fmt.Errorf("pool set is empty")
	}
	byAsset := make(map[string]Pool, len(list))
	for _, p := range list {
		if p.Asset == "" {
			return Pools{}, fmt.Errorf("pool with empty asset")
		}
		if !tableIdent.MatchString(p.Table) {
			return Pools{}, fmt.Errorf("pool %s: invalid table name %q", p.Asset, p.Table)
		}
		if _, dup := byAsset[p.Asset]; dup {
			return Pools{}, fmt.Errorf("duplicate pool %s", p.Asset)
		}
		byAsset[p.Asset] = p
	}
	return Pools{list: append([]Pool(nil), list...), byAsset: byAsset}, nil
}

// DefaultPools returns the tracked pool set.
func DefaultPools() Pools {
	pools, err := NewPools([]Pool{
		{Asset: "BTC.BTC", Table: "pool_btc_btc"},
		{Asset: "ETH.ETH", Table: "pool_eth_eth"},
		{Asset: "ETH.USDT-0XDAC17F958D2EE523A2206206994597C13D831EC7", Table: "pool_eth_usdt"},
		{Asset: "ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", Table: "pool_eth_usdc"},
	})
	if err != nil {
		panic(err)
	}
	return pools
}

// List returns the pools in declaration order.
func (p Pools) List() []Pool {
	return append([]Pool(nil), p.list...)
}

// Lookup resolves an asset identifier to its pool.
func (p Pools) Lookup(asset string) (Pool, error) {
	pool, ok := p.byAsset[asset]
	if !ok {
		return Pool{}, &ErrUnknownPool{Asset: asset}
	}
	return pool, nil
}

// Len returns the number of pools in the set.
func (p Pools) Len() int {
	return len(p.list)
}
