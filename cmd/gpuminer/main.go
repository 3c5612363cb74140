// gpuminer: GPU-accelerated double-SHA-256 Bitcoin-style mining driver
// Copyright (C) 2026  Guillermo Perry
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apollolongship/gpuminer/internal/config"
	"github.com/apollolongship/gpuminer/pkg/hashing/core"
	"github.com/apollolongship/gpuminer/pkg/hashing/factory"
	"github.com/apollolongship/gpuminer/pkg/hashing/header"
)

var (
	rpcAddress    = flag.String("rpc", "", "block template RPC address (http/https), overrides GPUMINER_RPC_ADDRESS")
	tipAddress    = flag.String("tip-address", "", "tip-change notifier address (tcp://host:port or ipc:///path)")
	batchSize     = flag.Uint("batch-size", 0, "GPU lanes dispatched per batch, 0 uses the configured default")
	printInterval = flag.Int("print-every", 15, "print a rate update every N batches")
	versionHex    = flag.String("version", "00000002", "block version, little-endian hex")
	prevHashHex   = flag.String("prev-hash", "", "previous block hash, 32-byte hex")
	merkleRootHex = flag.String("merkle-root", "", "merkle root, 32-byte hex")
	timestampHex  = flag.String("timestamp", "", "block timestamp, little-endian hex; defaults to now")
	bitsHex       = flag.String("bits", "1d00ffff", "compact difficulty target, little-endian hex")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadMinerConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *rpcAddress != "" {
		cfg.RPCAddress = *rpcAddress
	}
	if *tipAddress != "" {
		cfg.TipAddress = *tipAddress
	}
	if *batchSize > 0 {
		cfg.GPUBatchSize = uint32(*batchSize)
	}

	blockHeader, err := buildHeader()
	if err != nil {
		log.Fatalf("failed to build block header: %v", err)
	}

	fconfig := factory.DefaultHashMethodConfig()
	fconfig.GPUBatchSize = cfg.GPUBatchSize
	f := factory.NewHashMethodFactory(fconfig)

	report := f.GetDetectionReport()
	log.Printf("selected hashing method: %s (%d/%d methods available)",
		report.BestMethod, report.AvailableCount, report.TotalMethods)

	method := f.GetBestMethod()
	if method == nil {
		log.Fatalf("no hashing method available")
	}
	if err := method.Initialize(); err != nil {
		log.Fatalf("failed to initialize %s: %v", method.Name(), err)
	}
	defer method.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	log.Printf("starting mining run using %s", method.Name())
	runSearchLoop(ctx, method, blockHeader, *printInterval)
}

// buildHeader assembles the 76-byte fixed portion of the block header from
// the CLI flags; an empty prev-hash/merkle-root falls back to the all-zero
// test vector used to validate the engine end to end.
func buildHeader() (*header.BlockHeader, error) {
	prevHash := *prevHashHex
	if prevHash == "" {
		prevHash = zero32Hex
	}
	merkleRoot := *merkleRootHex
	if merkleRoot == "" {
		merkleRoot = zero32Hex
	}
	timestamp := *timestampHex
	if timestamp == "" {
		var buf [4]byte
		putLE32(buf[:], uint32(time.Now().Unix()))
		timestamp = hex.EncodeToString(buf[:])
	}

	return header.Parse(*versionHex, prevHash, merkleRoot, timestamp, *bitsHex)
}

const zero32Hex = "0000000000000000000000000000000000000000000000000000000000000000"

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// runSearchLoop drives the mining method one batch at a time over nonces
// 0..batch-1 (batch being the method's MaxBatchSize), advancing the header's
// timestamp by one after every batch without a hit, printing a rate update
// every printInterval batches until a winning nonce is found or ctx is
// cancelled.
func runSearchLoop(ctx context.Context, method core.HashMethod, blockHeader *header.BlockHeader, printInterval int) {
	caps := method.GetCapabilities()
	batch := uint32(caps.MaxBatchSize)
	if batch == 0 {
		batch = 1 << 16
	}

	start := time.Now()
	var totalHashes uint64
	var batches int
	timestamp := blockHeader.Timestamp

	for {
		select {
		case <-ctx.Done():
			log.Println("search cancelled")
			return
		default:
		}

		blockHeader.Timestamp = timestamp
		headerBytes := blockHeader.WithNonce(0)

		nonce, found, err := method.MineHeader(headerBytes[:], 0, batch-1)
		if err != nil {
			log.Fatalf("mining batch failed: %v", err)
		}

		totalHashes += uint64(batch)
		batches++

		if found {
			reportSuccess(os.Stdout, blockHeader, nonce)
			return
		}

		if batches%printInterval == 0 {
			elapsed := time.Since(start).Seconds()
			rate := (float64(totalHashes) / elapsed) / 1_000_000.0
			fmt.Fprintf(os.Stdout, "\rtried %d hashes at %.2f MH/s", totalHashes, rate)
		}

		timestamp++
	}
}

// reportSuccess prints the winning nonce, the header's double-SHA-256
// digest, and the block timestamp in human-readable form.
func reportSuccess(w io.Writer, blockHeader *header.BlockHeader, nonce uint32) {
	winning := blockHeader.WithNonce(nonce)
	digest := core.NewCanonicalSHA256().ComputeDoubleSHA256(winning[:])

	fmt.Fprintln(w, "\nstruck gold!")
	fmt.Fprintf(w, "nonce: %d\n", nonce)
	fmt.Fprintf(w, "hash: %s\n", hex.EncodeToString(digest[:]))
	fmt.Fprintf(w, "timestamp: %s\n", time.Unix(int64(blockHeader.Timestamp), 0).UTC().Format(time.RFC3339))
}
