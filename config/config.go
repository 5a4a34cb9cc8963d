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

// Package config loads the runtime configuration of a simulation from a
// YAML file and FAULTSIM_* environment variables, and turns it into
// system options.
package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v2"

	"github.com/tochemey/faultsim/actor"
	"github.com/tochemey/faultsim/internal/validation"
	"github.com/tochemey/faultsim/log"
	"github.com/tochemey/faultsim/message"
)

// Config is the runtime configuration of a simulation.
type Config struct {
	LogLevel  string    `yaml:"log_level"`
	Messaging Messaging `yaml:"messaging"`
	Heartbeat Heartbeat `yaml:"heartbeat"`
	Faults    Faults    `yaml:"faults"`
	Wire      Wire      `yaml:"wire"`
}

// Messaging configures the reliable messaging layer.
type Messaging struct {
	RetryInterval time.Duration `yaml:"retry_interval"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	InboxCapacity int           `yaml:"inbox_capacity"`
}

// Heartbeat configures failure detection. A zero timeout means three
// heartbeat intervals.
type Heartbeat struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Faults configures the fault injector. A zero seed picks a random one.
// A zero link rate disables link throttling.
type Faults struct {
	DropProbability float64       `yaml:"drop_probability"`
	MaxKills        int           `yaml:"max_kills"`
	KillInterval    time.Duration `yaml:"kill_interval"`
	Seed            uint64        `yaml:"seed"`
	LinkRate        float64       `yaml:"link_rate"`
	LinkBurst       int           `yaml:"link_burst"`
}

// Wire configures the serialization boundary between processes. An empty
// codec keeps messages in memory.
type Wire struct {
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel: log.InfoLevel.String(),
		Messaging: Messaging{
			RetryInterval: actor.DefaultRetryInterval,
			PollInterval:  actor.DefaultPollInterval,
			InboxCapacity: actor.DefaultInboxCapacity,
		},
		Heartbeat: Heartbeat{
			Interval: actor.DefaultHeartbeatInterval,
		},
		Faults: Faults{
			KillInterval: time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults, applies the
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file=(%s)", path)
		}
		if err := yaml.UnmarshalStrict(data, config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file=(%s)", path)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return config, nil
}

// Validate checks every field and reports all violations at once.
func (c *Config) Validate() error {
	_, levelErr := log.ParseLevel(c.LogLevel)
	chain := validation.New().
		AddAssertion(levelErr == nil, "log_level=("+c.LogLevel+") is not a valid level").
		AddValidator(validation.NewPositiveDurationValidator("messaging.retry_interval", c.Messaging.RetryInterval)).
		AddValidator(validation.NewPositiveDurationValidator("messaging.poll_interval", c.Messaging.PollInterval)).
		AddAssertion(c.Messaging.InboxCapacity > 0, "messaging.inbox_capacity must be greater than zero").
		AddValidator(validation.NewPositiveDurationValidator("heartbeat.interval", c.Heartbeat.Interval)).
		AddAssertion(c.Heartbeat.Timeout >= 0, "heartbeat.timeout must not be negative").
		AddValidator(validation.NewProbabilityValidator("faults.drop_probability", c.Faults.DropProbability)).
		AddAssertion(c.Faults.MaxKills >= -1, "faults.max_kills must be -1 (unbounded) or more").
		AddAssertion(c.Faults.MaxKills == 0 || c.Faults.KillInterval > 0, "faults.kill_interval must be greater than zero when kills are enabled").
		AddAssertion(c.Faults.LinkRate >= 0, "faults.link_rate must not be negative").
		AddAssertion(c.Faults.LinkRate == 0 || c.Faults.LinkBurst > 0, "faults.link_burst must be greater than zero when the link rate is set").
		AddValidator(validation.NewOneOfValidator("wire.codec", c.Wire.Codec, "", "json")).
		AddValidator(validation.NewOneOfValidator("wire.compression", c.Wire.Compression, "", string(message.Zstd), string(message.Brotli))).
		AddAssertion(c.Wire.Compression == "" || c.Wire.Codec != "", "wire.compression requires wire.codec")
	return chain.Validate()
}

// Logger builds the zap logger at the configured level.
func (c *Config) Logger(writers ...io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if len(writers) == 0 {
		writers = []io.Writer{os.Stdout}
	}
	return log.NewZap(level, writers...), nil
}

// Options turns the configuration into system options. Faults are applied
// separately through ConfigureFaults.
func (c *Config) Options(logger log.Logger) []actor.Option {
	opts := []actor.Option{
		actor.WithLogger(logger),
		actor.WithRetryInterval(c.Messaging.RetryInterval),
		actor.WithPollInterval(c.Messaging.PollInterval),
		actor.WithInboxCapacity(c.Messaging.InboxCapacity),
		actor.WithHeartbeatInterval(c.Heartbeat.Interval),
	}

	if c.Heartbeat.Timeout > 0 {
		opts = append(opts, actor.WithHeartbeatTimeout(c.Heartbeat.Timeout))
	}

	if c.Faults.Seed != 0 {
		opts = append(opts, actor.WithRandSeed(c.Faults.Seed))
	}

	if c.Faults.LinkRate > 0 {
		opts = append(opts, actor.WithLinkRate(rate.Limit(c.Faults.LinkRate), c.Faults.LinkBurst))
	}

	if codec := c.codec(); codec != nil {
		opts = append(opts, actor.WithWireCodec(codec))
	}
	return opts
}

// ConfigureFaults applies the fault settings to system.
func (c *Config) ConfigureFaults(system *actor.System) error {
	return system.ConfigureFaults(c.Faults.DropProbability, c.Faults.MaxKills, c.Faults.KillInterval)
}

func (c *Config) codec() message.Codec {
	if c.Wire.Codec == "" {
		return nil
	}
	var codec message.Codec = message.NewJSONCodec()
	if c.Wire.Compression != "" {
		codec = message.NewCompressedCodec(codec, message.Compression(c.Wire.Compression))
	}
	return codec
}
