// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "fmt"

// Platform identifies a social network target. The set is closed: adding a
// platform means adding a constant here and wiring it through the generator
// prompts, the publish gateway, and the credential store.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformReddit    Platform = "reddit"
)

// AllPlatforms lists every supported platform in display order.
// A variant set always carries exactly one text variant per entry.
var AllPlatforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTwitter,
	PlatformReddit,
}

// ParsePlatform validates a platform identifier from user input.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformReddit:
		return Platform(s), nil
	}
	return "", fmt.Errorf("models: unknown platform %q", s)
}

// Label returns the human-readable platform name used in notices and summaries.
func (p Platform) Label() string {
	switch p {
	case PlatformFacebook:
		return "Facebook"
	case PlatformInstagram:
		return "Instagram"
	case PlatformTwitter:
		return "Twitter"
	case PlatformReddit:
		return "Reddit"
	}
	return string(p)
}
