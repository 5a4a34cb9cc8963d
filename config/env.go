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

package config

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FAULTSIM_"

type lookupFunc func(key string) (string, bool)

type binding struct {
	key string
	set func(c *Config, value string) error
}

var bindings = []binding{
	{"LOG_LEVEL", func(c *Config, v string) error { c.LogLevel = v; return nil }},
	{"RETRY_INTERVAL", durationSetter(func(c *Config) *time.Duration { return &c.Messaging.RetryInterval })},
	{"POLL_INTERVAL", durationSetter(func(c *Config) *time.Duration { return &c.Messaging.PollInterval })},
	{"INBOX_CAPACITY", intSetter(func(c *Config) *int { return &c.Messaging.InboxCapacity })},
	{"HEARTBEAT_INTERVAL", durationSetter(func(c *Config) *time.Duration { return &c.Heartbeat.Interval })},
	{"HEARTBEAT_TIMEOUT", durationSetter(func(c *Config) *time.Duration { return &c.Heartbeat.Timeout })},
	{"DROP_PROBABILITY", floatSetter(func(c *Config) *float64 { return &c.Faults.DropProbability })},
	{"MAX_KILLS", intSetter(func(c *Config) *int { return &c.Faults.MaxKills })},
	{"KILL_INTERVAL", durationSetter(func(c *Config) *time.Duration { return &c.Faults.KillInterval })},
	{"SEED", func(c *Config, v string) error {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		c.Faults.Seed = seed
		return nil
	}},
	{"LINK_RATE", floatSetter(func(c *Config) *float64 { return &c.Faults.LinkRate })},
	{"LINK_BURST", intSetter(func(c *Config) *int { return &c.Faults.LinkBurst })},
	{"WIRE_CODEC", func(c *Config, v string) error { c.Wire.Codec = v; return nil }},
	{"WIRE_COMPRESSION", func(c *Config, v string) error { c.Wire.Compression = v; return nil }},
}

// applyEnv overrides the fields whose variable is set.
func (c *Config) applyEnv(lookup lookupFunc) error {
	for _, b := range bindings {
		key := EnvPrefix + b.key
		value, ok := lookup(key)
		if !ok {
			continue
		}
		if err := b.set(c, value); err != nil {
			return errors.Wrapf(err, "invalid %s=(%s)", key, value)
		}
	}
	return nil
}

func durationSetter(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func floatSetter(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}
