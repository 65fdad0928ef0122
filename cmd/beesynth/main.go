// Command beesynth plays a .beesynth score, a .wav file, or anything
// ffmpeg can transcode (mp3 and otherwise) through the PC speaker.
//
// Ported from original_source/src/main.rs: classify the input, parse or
// decode it into a wavedata.Data timeline, run it through the requested
// filter chain, and hand the result to the realtime scheduler. Run with
// no arguments to just mute the speaker and exit.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/HoShiMin/BeeSynth/internal/classify"
	"github.com/HoShiMin/BeeSynth/internal/filter"
	"github.com/HoShiMin/BeeSynth/internal/scheduler"
	"github.com/HoShiMin/BeeSynth/internal/score"
	"github.com/HoShiMin/BeeSynth/internal/stopflag"
	"github.com/HoShiMin/BeeSynth/internal/transcode"
	"github.com/HoShiMin/BeeSynth/internal/tsc"
	"github.com/HoShiMin/BeeSynth/internal/wavedata"
)

// driverBytes is the INPOUT-class kernel driver's on-disk image. No real
// signed driver binary ships with this module (see internal/driverload),
// so it is left nil; a production build would populate this via
// go:embed once a signed .sys is vendored.
var driverBytes []byte

func main() {
	stop := stopflag.New()
	installSignalHandler(stop)

	fs := pflag.NewFlagSet("beesynth", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: beesynth [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Plays a .beesynth score, a .wav file, or a transcodable audio file\nthrough the PC speaker. Run with no file to mute the speaker.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	iopl := fs.Bool("iopl", false, "elevate IOPL and talk to the PIT/speaker ports directly")
	switchInterval := fs.Int64("switch-interval", defaultSwitchIntervalNsec, "polyphonic channel switch interval, in nanoseconds")
	lowPass := fs.Uint32("low-pass", 0, "low-pass filter cutoff, in Hz")
	highPass := fs.Uint32("high-pass", 0, "high-pass filter cutoff, in Hz")
	bakeSimple := fs.Bool("bake-simple", false, "bake amplitude samples into positions with the simple strategy")
	bakeDiff := fs.Uint8("bake-diff", 5, "bake amplitude samples into positions with the differential strategy, at this percentage threshold")
	extractFreqRaw := fs.String("extract-freq", "", "extract dominant frequencies: min=<Hz>,max=<Hz>,sampling=<N>,step=<N>,channels=<N>")
	noteMatcher := fs.Bool("note-matcher", false, "quantize extracted frequencies to the nearest musical note")
	dumpConfig := fs.Bool("dump-config", false, "print the resolved play parameters as YAML and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		if fs.NArg() == 0 {
			if err := muteSpeaker(driverBytes); err != nil {
				log.Error("unable to mute the speaker", "err", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
		fs.Usage()
		os.Exit(1)
	}
	path := fs.Arg(0)

	params := newPlayParams()
	params.useIopl = *iopl
	params.switchInterval = *switchInterval
	if fs.Changed("low-pass") {
		v := *lowPass
		params.lowPass = &v
	}
	if fs.Changed("high-pass") {
		v := *highPass
		params.highPass = &v
	}
	params.bakeSimple = *bakeSimple
	if fs.Changed("bake-diff") {
		v := *bakeDiff
		params.bakeDiffPct = &v
	}
	if fs.Changed("extract-freq") {
		parsed, err := parseExtractFreq(*extractFreqRaw)
		if err != nil {
			log.Error("invalid --extract-freq", "err", err)
			os.Exit(1)
		}
		params.extractFreq = &parsed
	}
	params.noteMatcher = *noteMatcher

	if *dumpConfig {
		dumpConfigYAML(path, params)
		os.Exit(0)
	}

	if err := playGeneric(path, params, stop); err != nil {
		log.Error("playback failed", "err", err)
		os.Exit(1)
	}
}

// installSignalHandler sets the process stop flag and mutes the speaker
// on Ctrl-C, mirroring main.rs's ctrlc::set_handler.
func installSignalHandler(stop *stopflag.Flag) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		stop.Stop()
		if err := muteSpeaker(driverBytes); err != nil {
			log.Error("unable to mute the speaker on exit", "err", err)
		}
		os.Exit(0)
	}()
}

type configDump struct {
	Path           string `yaml:"path"`
	Iopl           bool   `yaml:"iopl"`
	SwitchInterval int64  `yaml:"switch_interval_nsec"`
	LowPassHz      uint32 `yaml:"low_pass_hz,omitempty"`
	HighPassHz     uint32 `yaml:"high_pass_hz,omitempty"`
	BakeSimple     bool   `yaml:"bake_simple,omitempty"`
	BakeDiffPct    uint8  `yaml:"bake_diff_pct,omitempty"`
	NoteMatcher    bool   `yaml:"note_matcher,omitempty"`
}

// dumpConfigYAML prints the resolved play parameters in YAML form. Not a
// requirement of the upstream spec, but a natural ambient diagnostic for
// a CLI tool shaped like this one.
func dumpConfigYAML(path string, params *playParams) {
	dump := configDump{
		Path:           path,
		Iopl:           params.useIopl,
		SwitchInterval: params.switchInterval,
		BakeSimple:     params.bakeSimple,
		NoteMatcher:    params.noteMatcher,
	}
	if params.lowPass != nil {
		dump.LowPassHz = *params.lowPass
	}
	if params.highPass != nil {
		dump.HighPassHz = *params.highPass
	}
	if params.bakeDiffPct != nil {
		dump.BakeDiffPct = *params.bakeDiffPct
	}
	out, err := yaml.Marshal(dump)
	if err != nil {
		log.Error("unable to marshal config", "err", err)
		return
	}
	os.Stdout.Write(out)
}

// playGeneric classifies path's contents and dispatches to the score or
// waveform path, ported from main.rs's play_generic (minus the
// CPU-affinity/realtime-priority pinning, which original_source applies
// via a bespoke `winapi::sched` crate with no portable Go equivalent in
// the retrieval pack; see DESIGN.md).
func playGeneric(path string, params *playParams, stop *stopflag.Flag) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}

	audioType := classify.Classify(data)

	var samples wavedata.Data
	var sampleRate uint32

	switch audioType {
	case classify.Synth:
		channels, err := score.Parse(string(data))
		if err != nil {
			return fmt.Errorf("unable to parse the given synth-file: %w", err)
		}
		if params.lowPass != nil || params.highPass != nil || params.bakeSimple || params.bakeDiffPct != nil ||
			params.extractFreq != nil || params.noteMatcher {
			return fmt.Errorf("filters are not applicable to synth scores")
		}
		samples = scoreToData(channels)

	case classify.WAV:
		converted, header, err := wavBytesToData(data)
		if err != nil {
			return fmt.Errorf("unable to parse the given wav-file: %w", err)
		}
		samples, sampleRate = converted, header.SampleRate

	case classify.MP3, classify.Unknown:
		convertedPath, err := transcode.ConvertToWAV(path, 16, 22050)
		if err != nil {
			return fmt.Errorf("unable to convert the given file to wav: %w", err)
		}
		buf, err := os.ReadFile(convertedPath)
		if err != nil {
			return fmt.Errorf("unable to read the converted file %s: %w", convertedPath, err)
		}
		converted, header, err := wavBytesToData(buf)
		if err != nil {
			return fmt.Errorf("unable to parse the converted wav-file: %w", err)
		}
		samples, sampleRate = converted, header.SampleRate
	}

	if samples.IsEmpty() {
		return fmt.Errorf("there are no data to play")
	}

	filters := buildFilterChain(params, sampleRate)
	filtered, err := filter.Chain(samples, filters...)
	if err != nil {
		return fmt.Errorf("unable to filter the samples: %w", err)
	}

	return playData(filtered, params, stop)
}

// buildFilterChain constructs the filter pipeline from the resolved
// parameters, in the order the original's parse_wave_params pushes them.
func buildFilterChain(params *playParams, sampleRate uint32) []filter.Filter {
	var filters []filter.Filter

	if params.lowPass != nil {
		filters = append(filters, filter.NewLowPass(sampleRate, float32(*params.lowPass)))
	}
	if params.highPass != nil {
		filters = append(filters, filter.NewHighPass(sampleRate, float32(*params.highPass)))
	}
	if params.bakeSimple {
		filters = append(filters, filter.NewBakery(filter.StrategySimple{}))
	}
	if params.bakeDiffPct != nil {
		filters = append(filters, filter.NewBakery(filter.StrategyDifferential{SwitchPercentage: *params.bakeDiffPct}))
	}
	if ef := params.extractFreq; ef != nil {
		sampling := uint32(4096)
		if ef.sampling != nil {
			sampling = *ef.sampling
		}
		step := uint32(32)
		if ef.step != nil {
			step = *ef.step
		}
		channels := uint8(2)
		if ef.channels != nil {
			channels = *ef.channels
		}
		filters = append(filters, filter.NewFreqExtractor(ef.min, ef.max, sampling, step, sampleRate, channels))
	}
	if params.noteMatcher {
		filters = append(filters, filter.NoteMatcher{})
	}

	return filters
}

// playData brings the speaker backend up and drives the realtime
// scheduler appropriate to samples' Kind, then mutes on completion.
// If filtering still leaves raw amplitude samples (no baker was
// requested, or none ran to completion), it falls back to a default
// differential(5) bake so the scheduler only ever sees Position or
// Frequency data, exactly as play_data's unconditional post-filter bake
// does in original_source/src/main.rs.
func playData(samples wavedata.Data, params *playParams, stop *stopflag.Flag) error {
	if samples.Kind == wavedata.KindAmplitude {
		baked, ok := filter.NewBakery(filter.StrategyDifferential{SwitchPercentage: 5}).Apply(samples)
		if !ok {
			return fmt.Errorf("unable to bake samples")
		}
		samples = baked
	}

	driver, cleanup, err := newSpeakerDriver(params.useIopl, driverBytes)
	if err != nil {
		return fmt.Errorf("unable to initialize the speaker driver: %w", err)
	}
	defer cleanup()

	waiter := tsc.New(calibrationMsec)

	switch samples.Kind {
	case wavedata.KindPosition:
		scheduler.PlayPositions(driver, newPositionPeeker(samples.Position, stop), waiter, stop)
	case wavedata.KindFrequency:
		peeker := newFreqPeeker(samples.Frequency, stop)
		if peeker.ChannelCount() == 1 {
			scheduler.PlayFrequencyMono(driver, peeker, waiter, stop)
		} else {
			scheduler.PlayFrequencyPoly(driver, peeker, waiter, params.switchInterval, stop)
		}
	default:
		return fmt.Errorf("unexpected data kind after filtering: %v", samples.Kind)
	}

	log.Info("finished")
	return nil
}
