// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the singleton validator instance. The instance is
// safe for concurrent use and caches struct metadata.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks struct tags plus the handful of rules tags cannot express.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			ve := verrs[0]
			return fmt.Errorf("config: field %s failed rule %q", ve.Namespace(), ve.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.Vimeo.Timeout <= 0 {
		return errors.New("config: vimeo.timeout must be positive")
	}
	if c.Vimeo.CooldownWindow <= 0 {
		return errors.New("config: vimeo.cooldown_window must be positive")
	}
	if c.NATS.RequestTimeout <= 0 {
		return errors.New("config: nats.request_timeout must be positive")
	}

	return nil
}
