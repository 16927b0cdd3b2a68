// Command rotaryclub runs the pseudo-Doppler RDF bearing pipeline
// against either a live PortAudio input device or a WAV file, emitting
// bearing measurements in one of the supported output formats.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/rdf"
	"github.com/charlieh0tel/rotaryclub-sub000/pkg/audioio"
	"github.com/charlieh0tel/rotaryclub-sub000/pkg/bearingfmt"
	"github.com/charlieh0tel/rotaryclub-sub000/pkg/indicator"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "YAML config file (overrides defaults)")
	wavPath := pflag.StringP("wav", "w", "", "Read input from a WAV file instead of the default audio device")
	format := pflag.StringP("format", "f", "text", "Output format: text|csv|json|kn5r")
	verbose := pflag.BoolP("verbose", "v", false, "Verbose text output")
	strobeChip := pflag.String("strobe-chip", "", "GPIO chip for an optional north-tick strobe, e.g. gpiochip0")
	strobeLine := pflag.Int("strobe-line", -1, "GPIO line offset for the north-tick strobe")
	help := pflag.BoolP("help", "h", false, "Display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - pseudo-Doppler RDF bearing pipeline\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.New(os.Stderr)

	cfg := rdf.DefaultConfig()
	if *configPath != "" {
		loaded, err := rdf.LoadConfigFile(*configPath)
		if err != nil {
			logger.Error("loading config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	} else if err := cfg.Validate(); err != nil {
		logger.Error("default config failed validation", "err", err)
		os.Exit(1)
	}

	pipeline, err := rdf.NewPipeline(cfg, true)
	if err != nil {
		logger.Error("constructing pipeline", "err", err)
		os.Exit(1)
	}

	formatter, err := selectFormatter(*format, *verbose)
	if err != nil {
		logger.Error("selecting formatter", "err", err)
		os.Exit(1)
	}
	if csvFmt, ok := formatter.(bearingfmt.CSVFormatter); ok {
		fmt.Println(csvFmt.Header())
	}

	var strobe *indicator.GPIOStrobe
	if *strobeChip != "" && *strobeLine >= 0 {
		strobe, err = indicator.NewGPIOStrobe(*strobeChip, *strobeLine)
		if err != nil {
			logger.Error("constructing gpio strobe", "err", err)
			os.Exit(1)
		}
		defer strobe.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var producer audioio.SampleProducer
	if *wavPath != "" {
		producer, err = audioio.OpenWAVFileSource(*wavPath, cfg.Audio.FrameSize)
	} else {
		producer, err = audioio.NewPortAudioSource(cfg.Audio.SampleRate, cfg.Audio.FrameSize)
	}
	if err != nil {
		logger.Error("opening audio source", "err", err)
		os.Exit(1)
	}
	defer producer.Close()

	runLoop(ctx, logger, pipeline, producer, formatter, strobe)
}

func runLoop(ctx context.Context, logger *log.Logger, pipeline *rdf.Pipeline, producer audioio.SampleProducer, formatter bearingfmt.Formatter, strobe *indicator.GPIOStrobe) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		chunk, err := producer.NextChunk(ctx)
		if err != nil {
			logger.Debug("audio source ended", "err", err)
			return
		}

		results := pipeline.ProcessChunk(chunk)
		now := time.Now()
		for _, result := range results {
			if strobe != nil {
				strobe.OnTick(result.NorthTick)
			}
			variance, hasVariance := pipeline.PhaseErrorVariance()
			rec := bearingfmt.Record{
				Timestamp:           now,
				Result:              result,
				PhaseErrorVariance:  variance,
				HasPhaseErrVariance: hasVariance,
			}
			fmt.Println(formatter.Format(rec))
		}
	}
}

func selectFormatter(name string, verbose bool) (bearingfmt.Formatter, error) {
	switch name {
	case "text":
		return bearingfmt.TextFormatter{Verbose: verbose}, nil
	case "csv":
		return bearingfmt.CSVFormatter{}, nil
	case "json":
		return bearingfmt.JSONFormatter{}, nil
	case "kn5r":
		return bearingfmt.KN5RFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}
