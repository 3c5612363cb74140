// Package template defines the narrow interface a block-template source
// (a BIP-0022-style getblocktemplate RPC, or any equivalent) must satisfy to
// hand the mining engine a header to search.
package template

import "context"

// Template is the subset of a getblocktemplate response the engine needs:
// enough to build a BlockHeader once the caller has assembled a coinbase
// transaction and computed the resulting merkle root.
type Template struct {
	Version       uint32
	PreviousBlock string // 32-byte hash, hex
	MerkleRoot    string // 32-byte hash, hex, after coinbase/tx assembly
	Timestamp     uint32
	Bits          string // 4-byte compact target, hex
	Height        uint64
}

// Provider fetches a block template to mine against. Implementations are
// expected to wrap a getblocktemplate RPC call or an equivalent local
// source; network I/O stays out of pkg/hashing/gpu and pkg/hashing/header.
type Provider interface {
	FetchTemplate(ctx context.Context) (*Template, error)
}
