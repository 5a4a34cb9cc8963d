// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tochemey/faultsim/actor"
	"github.com/tochemey/faultsim/config"
	"github.com/tochemey/faultsim/internal/wordcount"
)

type runFlags struct {
	configPath      string
	words           int
	wordsSeed       uint64
	timeout         time.Duration
	dropProbability float64
	maxKills        int
	killInterval    time.Duration
	codec           string
	compression     string
}

var flags runFlags

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the map-reduce word count under faults",
	Long: `Generates a random list of words, counts them with a map-reduce
workload spread over processes while messages are dropped and processes
killed, then compares the result with a sequential count.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load(flags.configPath)
		if err != nil {
			return err
		}
		overrideConfig(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "invalid flags")
		}

		return run(ctx, cmd.OutOrStdout(), cfg)
	},
}

func init() {
	runCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML configuration file")
	runCmd.Flags().IntVar(&flags.words, "words", 100, "number of words to count")
	runCmd.Flags().Uint64Var(&flags.wordsSeed, "words-seed", 0, "seed of the word generator, 0 picks one")
	runCmd.Flags().DurationVar(&flags.timeout, "timeout", time.Minute, "maximum duration of the run")
	runCmd.Flags().Float64Var(&flags.dropProbability, "drop", 0, "probability of dropping any message")
	runCmd.Flags().IntVar(&flags.maxKills, "max-kills", 0, "number of processes to kill, -1 for unbounded")
	runCmd.Flags().DurationVar(&flags.killInterval, "kill-interval", time.Second, "delay between two kills")
	runCmd.Flags().StringVar(&flags.codec, "codec", "", "wire codec: json or empty to stay in memory")
	runCmd.Flags().StringVar(&flags.compression, "compression", "", "wire compression: zstd, brotli or empty")
	rootCmd.AddCommand(runCmd)
}

// overrideConfig applies the flags explicitly set on the command line.
func overrideConfig(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("drop") {
		cfg.Faults.DropProbability = flags.dropProbability
	}
	if changed("max-kills") {
		cfg.Faults.MaxKills = flags.maxKills
	}
	if changed("kill-interval") {
		cfg.Faults.KillInterval = flags.killInterval
	}
	if changed("codec") {
		cfg.Wire.Codec = flags.codec
	}
	if changed("compression") {
		cfg.Wire.Compression = flags.compression
	}
}

func run(ctx context.Context, out io.Writer, cfg *config.Config) error {
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}

	system, err := actor.NewSystem(cfg.Options(logger)...)
	if err != nil {
		return err
	}
	defer func() {
		if err := system.Stop(context.Background()); err != nil {
			logger.Error(errors.Wrap(err, "failed to stop the system"))
		}
	}()

	if err := cfg.ConfigureFaults(system); err != nil {
		return err
	}

	seed := flags.wordsSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	words := wordcount.Generate(flags.words, seed)

	if err := system.Run(ctx, words, wordcount.Programs()); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, flags.timeout)
	defer cancel()
	output, runErr := system.WaitForCompletion(waitCtx)

	expected := wordcount.Count(words)
	got, _ := output.(map[string]int)
	metric := system.Metric()

	if runErr == nil && maps.Equal(expected, got) {
		fmt.Fprintln(out, "SUCCESS")
	} else {
		fmt.Fprintln(out, "FAILURE")
		fmt.Fprintf(out, "Correct: %v\n", expected)
		fmt.Fprintf(out, "Got: %v\n", got)
		if runErr != nil {
			fmt.Fprintf(out, "Error: %v\n", runErr)
		}
	}

	fmt.Fprintf(out, "spawns=(%d) kills=(%d) revivals=(%d) drops=(%d) retransmissions=(%d)\n",
		metric.Spawns(), metric.Kills(), metric.Revivals(), metric.Drops(), metric.Retransmissions())

	if runErr != nil {
		return runErr
	}
	if !maps.Equal(expected, got) {
		return errors.New("word count mismatch")
	}
	return nil
}
