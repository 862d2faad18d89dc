package demo

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// payloadSeed mixes into the per-worker seed so payloads differ from other
// PCG users seeded by small integers.
const payloadSeed = 0x6e616d65646c6f63

var fillerWords = []string{
	"synergy", "leverage", "paradigm", "holistic", "framework", "iterative",
	"scalable", "robust", "pipeline", "baseline", "throughput", "latency",
	"handshake", "checkpoint", "artifact", "manifest", "quorum", "ledger",
	"cadence", "roadmap", "bandwidth", "runway", "backlog", "milestone",
}

// Payload returns the content worker index writes: lines lines of the form
// "worker=0007 line=00012 <filler>". The same index always yields the same bytes.
func Payload(index, lines int) []byte {
	rng := rand.New(rand.NewPCG(uint64(index), payloadSeed)) //nolint:gosec // filler text, not security sensitive

	var b strings.Builder
	words := make([]string, 0, 12)
	for n := range lines {
		words = words[:0]
		for range 6 + rng.IntN(7) {
			words = append(words, fillerWords[rng.IntN(len(fillerWords))])
		}
		fmt.Fprintf(&b, "worker=%04d line=%05d %s\n", index, n, strings.Join(words, " "))
	}
	return []byte(b.String())
}
