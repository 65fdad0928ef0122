package main

import (
	"fmt"
	"strconv"
	"strings"
)

// playParams mirrors original_source/src/main.rs's PlayParams: the beeper
// backend to use, the poly-scheduler's channel switch interval, and the
// ordered filter-construction parameters lifted from the command line.
type playParams struct {
	useIopl        bool
	switchInterval int64 // nanoseconds
	lowPass        *uint32
	highPass       *uint32
	bakeSimple     bool
	bakeDiffPct    *uint8
	extractFreq    *extractFreqParams
	noteMatcher    bool
}

// extractFreqParams holds the comma-separated key=value fields of
// --extract-freq. A nil field falls back to a default: buildFilterChain
// supplies sampling=4096, step=32 and channels=2, and a nil min/max makes
// FreqExtractor use its full bin range.
type extractFreqParams struct {
	min, max       *uint32
	sampling, step *uint32
	channels       *uint8
}

const defaultSwitchIntervalNsec = 20 * 1000 * 1000

func newPlayParams() *playParams {
	return &playParams{switchInterval: defaultSwitchIntervalNsec}
}

// parseExtractFreq splits "min=100,max=4000,sampling=4096" style values
// produced by pflag for --extract-freq with a small hand-rolled splitter
// rather than a general key=value library for one option string.
func parseExtractFreq(value string) (extractFreqParams, error) {
	var p extractFreqParams
	if value == "" {
		return p, nil
	}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return p, fmt.Errorf("invalid --extract-freq field %q: expected key=value", part)
		}
		key, raw := kv[0], kv[1]
		switch key {
		case "min":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return p, fmt.Errorf("invalid --extract-freq min=%s: %w", raw, err)
			}
			min32 := uint32(v)
			p.min = &min32
		case "max":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return p, fmt.Errorf("invalid --extract-freq max=%s: %w", raw, err)
			}
			max32 := uint32(v)
			p.max = &max32
		case "sampling":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return p, fmt.Errorf("invalid --extract-freq sampling=%s: %w", raw, err)
			}
			sampling := uint32(v)
			p.sampling = &sampling
		case "step":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return p, fmt.Errorf("invalid --extract-freq step=%s: %w", raw, err)
			}
			step := uint32(v)
			p.step = &step
		case "channels":
			v, err := strconv.ParseUint(raw, 10, 8)
			if err != nil {
				return p, fmt.Errorf("invalid --extract-freq channels=%s: %w", raw, err)
			}
			channels := uint8(v)
			p.channels = &channels
		default:
			return p, fmt.Errorf("unknown --extract-freq field %q", key)
		}
	}
	return p, nil
}
