// internal/config/normalize.go
package config

import "github.com/tamzrod/probe-driver/internal/status"

// DefaultTimeoutMs applies when a source leaves timeout_ms unset.
const DefaultTimeoutMs = 1000

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for ui := range cfg.Driver.Probes {
		u := &cfg.Driver.Probes[ui]

		if u.Source.TimeoutMs <= 0 {
			u.Source.TimeoutMs = DefaultTimeoutMs
		}

		for ti := range u.Targets {
			if u.Targets[ti].Protocol == "" {
				u.Targets[ti].Protocol = ProtocolModbus
			}
		}

		// Device name: ASCII already validated, truncate to the status block width.
		if len(u.Source.DeviceName) > status.DeviceNameMaxChars {
			u.Source.DeviceName = u.Source.DeviceName[:status.DeviceNameMaxChars]
		}
	}
}
