// Package bridge connects an external new-block notifier to the mining
// engine through a bounded channel, the Go rendering of the tokio mpsc
// channel the original btccore-bridge crate used between a ZMQ receiver and
// the miner's search loop.
package bridge

import (
	"context"
	"fmt"
	"net/url"
)

// Error codes for the bridge package.
const (
	ErrCodeInvalidAddress = 1
	ErrCodeNotifierFailed = 2
)

// BridgeError is the structured error type for the bridge package.
type BridgeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *BridgeError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("bridge: [%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("bridge: [%d] %s", e.Code, e.Message)
}

// Predefined errors.
var (
	ErrInvalidAddress = &BridgeError{Code: ErrCodeInvalidAddress, Message: "invalid notifier or RPC address"}
	ErrNotifierFailed = &BridgeError{Code: ErrCodeNotifierFailed, Message: "notifier receive failed"}
)

// tipChannelCapacity is the bounded SPSC channel depth between the notifier
// goroutine and the miner's search loop.
const tipChannelCapacity = 8

// TipNotifier is the one-method external collaborator a Bridge drives: it
// blocks until a new chain tip is announced and returns the 32-byte tip
// hash, or an error if the underlying transport fails.
type TipNotifier interface {
	Recv(ctx context.Context) ([32]byte, error)
}

// Bridge forwards tip-change notifications from a TipNotifier onto a
// bounded channel the driver's search loop selects on, validating the RPC
// and notifier addresses up front.
type Bridge struct {
	rpcAddress string
	tipAddress string
	notifier   TipNotifier
	tips       chan [32]byte
}

// New validates rpcAddress (http/https only) and tipAddress
// (tcp://host:port or ipc:///path), then returns a Bridge ready to listen.
func New(rpcAddress, tipAddress string, notifier TipNotifier) (*Bridge, error) {
	if err := validateRPCAddress(rpcAddress); err != nil {
		return nil, err
	}
	if err := validateTipAddress(tipAddress); err != nil {
		return nil, err
	}

	return &Bridge{
		rpcAddress: rpcAddress,
		tipAddress: tipAddress,
		notifier:   notifier,
		tips:       make(chan [32]byte, tipChannelCapacity),
	}, nil
}

func validateRPCAddress(address string) error {
	u, err := url.Parse(address)
	if err != nil {
		return &BridgeError{Code: ErrCodeInvalidAddress, Message: "invalid RPC address", Details: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &BridgeError{Code: ErrCodeInvalidAddress, Message: "RPC address must use http or https", Details: address}
	}
	return nil
}

func validateTipAddress(address string) error {
	u, err := url.Parse(address)
	if err != nil {
		return &BridgeError{Code: ErrCodeInvalidAddress, Message: "invalid notifier address", Details: err.Error()}
	}
	switch u.Scheme {
	case "tcp":
		if u.Hostname() == "" || u.Port() == "" {
			return &BridgeError{Code: ErrCodeInvalidAddress, Message: "tcp notifier address must have host and port", Details: address}
		}
	case "ipc":
		if u.Path == "" {
			return &BridgeError{Code: ErrCodeInvalidAddress, Message: "ipc notifier address must have a path", Details: address}
		}
	default:
		return &BridgeError{Code: ErrCodeInvalidAddress, Message: "notifier address must use tcp or ipc", Details: address}
	}
	return nil
}

// Tips returns the channel the driver's search loop selects on for
// tip-change signals.
func (b *Bridge) Tips() <-chan [32]byte {
	return b.tips
}

// Listen blocks, forwarding each tip hash the notifier reports onto the
// Tips channel, until ctx is cancelled or the notifier returns an error.
func (b *Bridge) Listen(ctx context.Context) error {
	for {
		tip, err := b.notifier.Recv(ctx)
		if err != nil {
			return &BridgeError{Code: ErrCodeNotifierFailed, Message: "notifier receive failed", Details: err.Error()}
		}

		select {
		case b.tips <- tip:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
