// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agents

import (
	"fmt"
	"net/url"
)

// PushNotificationConfig describes where to deliver out-of-band task
// updates for callers that disconnect instead of holding a stream open.
type PushNotificationConfig struct {
	// URL is the endpoint that receives task notifications via HTTP POST.
	URL string `json:"url"`

	// Token is an opaque value echoed back to the endpoint so it can
	// correlate notifications with the registration.
	Token string `json:"token,omitempty"`
}

// Validate ensures the PushNotificationConfig is in a valid state.
func (c *PushNotificationConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("push notification URL cannot be empty")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("push notification URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("push notification URL must use http or https, got %q", u.Scheme)
	}
	return nil
}
