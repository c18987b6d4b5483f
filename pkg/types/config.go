/*
Copyright © 2022 - 2024 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package types

import "fmt"

// Config is the struct that includes basic and generic configuration of the
// boot manager's runtime. It mostly includes the interfaces used around
// many methods in the core, the same way elemental-toolkit's Config embeds
// Logger/Fs/Mounter/Runner rather than letting packages reach for globals.
type Config struct {
	Logger     Logger     `yaml:"-" mapstructure:"-"`
	Platform   Platform   `yaml:"-" mapstructure:"-"`
	DeviceInfo DeviceInfo `yaml:"device,omitempty" mapstructure:"device"`

	// Device is the block device carrying the misc/boot/recovery/ESP
	// partitions, e.g. /dev/disk/by-id/....
	Device string `yaml:"device-path,omitempty" mapstructure:"device-path"`
	// ESPMountPoint records where an already-mounted ESP is exposed. The
	// Real platform does not read it; it always parses the ESP's FAT
	// filesystem off its partition.
	ESPMountPoint string `yaml:"esp-mount,omitempty" mapstructure:"esp-mount"`
	// LogLevel is a logrus level name (e.g. "info", "debug").
	LogLevel string `yaml:"log-level,omitempty" mapstructure:"log-level"`
}

// NewConfig returns a Config with defaults filled in, following the same
// functional-options constructor shape the teacher uses for its run
// configs.
func NewConfig(opts ...func(*Config)) *Config {
	c := &Config{
		Logger:   NopLogger{},
		LogLevel: "info",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithLogger sets Config.Logger.
func WithLogger(l Logger) func(*Config) { return func(c *Config) { c.Logger = l } }

// WithPlatform sets Config.Platform.
func WithPlatform(p Platform) func(*Config) { return func(c *Config) { c.Platform = p } }

// Sanitize checks the consistency of the struct, returns error if
// unsolvable inconsistencies are found, mirroring every *Spec.Sanitize() in
// this module.
func (c *Config) Sanitize() error {
	if c.Platform == nil {
		return fmt.Errorf("config: platform is required")
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}
	if err := c.DeviceInfo.Sanitize(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
