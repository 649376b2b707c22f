// Command ministark-prover proves and verifies a Fibonacci-like execution
// trace with the configured parameters. It exists to exercise the whole
// pipeline end to end from the command line.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ministark/ministark/internal/ministark/logger"
	"github.com/ministark/ministark/pkg/ministark"
)

func main() {
	traceLength := flag.Int("trace", 1024, "trace length (power of two)")
	blowup := flag.Int("blowup", 4, "blowup factor (power of two)")
	queries := flag.Int("queries", 40, "number of FRI queries")
	modulus := flag.String("modulus", "3221225473", "prime field modulus")
	hasherID := flag.Int("hasher", 0, "hasher id (0 sha3-256, 1 sha256, 2 blake2b-256)")
	output := flag.String("o", "", "write the serialized proof to this file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logger.Set(logger.Logger().Level(zerolog.DebugLevel))
	}
	log := logger.Logger()

	fieldModulus, ok := new(big.Int).SetString(*modulus, 10)
	if !ok {
		fatal("invalid modulus %q", *modulus)
	}

	params := ministark.Parameters{
		FieldModulus:  fieldModulus,
		TraceLength:   *traceLength,
		BlowupFactor:  *blowup,
		NumQueries:    *queries,
		HasherID:      byte(*hasherID),
		ConstraintSet: "fibonacci",
	}

	trace, err := ministark.FibonacciTrace(params)
	if err != nil {
		fatal("building trace: %v", err)
	}
	publicInputs := trace[:2]

	start := time.Now()
	proofBytes, err := ministark.Prove(params, trace, publicInputs)
	if err != nil {
		fatal("proving: %v", err)
	}
	log.Info().
		Int("proofBytes", len(proofBytes)).
		Dur("took", time.Since(start)).
		Msg("proof generated")

	if *output != "" {
		if err := os.WriteFile(*output, proofBytes, 0o644); err != nil {
			fatal("writing proof: %v", err)
		}
		log.Info().Str("path", *output).Msg("proof written")
	}

	start = time.Now()
	result, err := ministark.Verify(params, proofBytes, publicInputs)
	if err != nil {
		fatal("verifying: %v", err)
	}
	log.Info().
		Bool("accepted", result.Accepted).
		Dur("took", time.Since(start)).
		Msg("proof verified")

	if !result.Accepted {
		fatal("verification rejected: %s", result)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ministark-prover: "+format+"\n", args...)
	os.Exit(1)
}
