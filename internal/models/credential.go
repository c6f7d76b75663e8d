// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PlatformCredential holds one platform's API credentials as an opaque
// key/value bag (each platform needs a different field set: tokens, client
// ids, account ids). Values never leave the server; the API only reports
// which platforms are connected.
type PlatformCredential struct {
	Platform  Platform          `json:"platform"`
	Values    map[string]string `json:"-"`
	Connected bool              `json:"connected"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Get returns a credential field, or the empty string when absent.
func (c *PlatformCredential) Get(key string) string {
	if c == nil {
		return ""
	}
	return c.Values[key]
}
