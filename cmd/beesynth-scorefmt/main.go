// Command beesynth-scorefmt parses a .beesynth score, validates it, and
// re-emits it in canonical formatting.
//
// A small standalone convert-and-verify tool living beside the main
// binary, kept on the stdlib flag package rather than pflag since
// nothing here needs GNU long-option parsing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/HoShiMin/BeeSynth/internal/score"
)

func main() {
	outFile := flag.String("o", "", "Output file (default: input with .fmt.beesynth suffix)")
	check := flag.Bool("check", false, "Only validate; do not write output")
	stats := flag.Bool("stats", false, "Print channel/record counts")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: beesynth-scorefmt [options] input.beesynth\n\nParses and re-emits a beesynth score in canonical form.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  beesynth-scorefmt song.beesynth\n")
		fmt.Fprintf(os.Stderr, "  beesynth-scorefmt -check song.beesynth\n")
		fmt.Fprintf(os.Stderr, "  beesynth-scorefmt -o song.canonical.beesynth song.beesynth\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	inputPath := flag.Arg(0)
	input, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", inputPath, err)
		os.Exit(1)
	}

	channels, err := score.Parse(string(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	canonical := channels.String()

	if *stats {
		fmt.Printf("BPM:      %d\n", channels.BPM)
		fmt.Printf("Channels: %d\n", len(channels.Channels))
		total := 0
		for _, channel := range channels.Channels {
			total += len(channel)
		}
		fmt.Printf("Records:  %d\n", total)
	}

	if *check {
		// Round-trip the canonical form once more to confirm the parser
		// and emitter agree (the law §8 calls "Parse -> emit -> parse on
		// a score listing yields the same Channels value").
		reparsed, err := score.Parse(canonical)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: canonical re-emission failed to parse: %v\n", err)
			os.Exit(1)
		}
		if reparsed.String() != canonical {
			fmt.Fprintln(os.Stderr, "error: parse -> emit -> parse is not stable for this score")
			os.Exit(1)
		}
		fmt.Println("OK")
		return
	}

	outputPath := *outFile
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".beesynth") + ".fmt.beesynth"
	}

	if err := os.WriteFile(outputPath, []byte(canonical), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}
}
