// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"fmt"
	"strings"

	"postpilot/internal/models"
)

// Tones accepted by the generation API. The corporate tone is special:
// it cuts every platform's character budget and bans hashtags and emojis.
var Tones = []string{
	"casual", "professional", "corporate", "funny",
	"inspirational", "educational", "storytelling", "promotional",
}

// ImageStyles accepted by the image generation API.
var ImageStyles = []string{
	"realistic", "minimal", "anime", "2d", "comics", "sketch", "vintage", "disney",
}

// ValidTone reports whether the given tone is supported.
func ValidTone(tone string) bool {
	for _, t := range Tones {
		if t == tone {
			return true
		}
	}
	return false
}

// ValidImageStyle reports whether the given image style is supported.
func ValidImageStyle(style string) bool {
	for _, s := range ImageStyles {
		if s == style {
			return true
		}
	}
	return false
}

// platformRules captures how a post should be shaped for one platform.
type platformRules struct {
	MaxLength int
	Style     string
	Hashtags  string
}

// rulesFor returns the prompt constraints for a platform under the given
// tone. Corporate collapses everything to short, bare statements.
func rulesFor(platform models.Platform, tone string) platformRules {
	corporate := tone == "corporate"

	switch platform {
	case models.PlatformFacebook:
		if corporate {
			return platformRules{150, "ultra-brief, minimal, clean", "NO hashtags"}
		}
		return platformRules{500, "conversational and friendly, can be longer", "optional, 2-3 max"}
	case models.PlatformInstagram:
		if corporate {
			return platformRules{100, "minimal caption, let image speak", "1-2 minimal hashtags max"}
		}
		return platformRules{400, "visual and engaging with emojis", "5-10 relevant hashtags"}
	case models.PlatformTwitter:
		if corporate {
			return platformRules{100, "extremely brief and impactful", "NO hashtags"}
		}
		return platformRules{260, "concise and punchy", "1-3 hashtags"}
	case models.PlatformReddit:
		if corporate {
			return platformRules{150, "simple, direct, no fluff", "avoid hashtags, focus on genuine content"}
		}
		return platformRules{300, "authentic and community-focused, no spam", "avoid hashtags, focus on genuine content"}
	}
	return platformRules{300, "engaging and authentic", "optional"}
}

// toneInstructions steer the copy for each tone.
var toneInstructions = map[string]string{
	"casual":        "Be conversational, friendly, and approachable like talking to a friend",
	"professional":  "Be formal, polished, and business-appropriate with expertise",
	"corporate":     "Be EXTREMELY brief and minimal. Use only 1-2 short sentences MAX. Clean, simple language. Think Apple or Tesla - minimal text, maximum impact. NO hashtags. NO emojis unless absolutely essential. Pure corporate minimalism.",
	"funny":         "Be hilarious, witty, and entertaining with humor that makes people laugh out loud",
	"inspirational": "Be deeply motivational, uplifting, and empowering with powerful impact",
	"educational":   "Be informative, clear, and teaching-focused with valuable insights",
	"storytelling":  "Be narrative-driven, engaging, and emotionally compelling like a great story",
	"promotional":   "Be persuasive, sales-focused, and action-oriented with strong call-to-action",
}

// toneImageStyles describe the visual atmosphere for each tone.
var toneImageStyles = map[string]string{
	"casual":        "friendly and approachable, warm and inviting atmosphere",
	"professional":  "sleek, corporate, and polished with sophisticated elegance",
	"corporate":     "ultra-clean, minimalist corporate aesthetic, extreme simplicity with maximum impact",
	"funny":         "hilarious, playful, vibrant and whimsical with comedic flair",
	"inspirational": "motivational, uplifting, dramatic and empowering with cinematic quality",
	"educational":   "clear, informative, well-structured with visual learning elements",
	"storytelling":  "narrative-driven, emotional, engaging with story-like composition",
	"promotional":   "eye-catching, sales-focused, bold and attention-grabbing",
}

// imageStylePrompts map the operator-selected art style to concrete
// generation directives.
var imageStylePrompts = map[string]string{
	"realistic": "professional photography style, high quality, well-lit, sharp focus, beautiful composition, commercial photography aesthetic",
	"minimal":   "ultra-minimalist design, clean white space, single focal point, Apple-style simplicity, corporate clean aesthetic, NO text overlays, pure visual impact, negative space emphasis",
	"anime":     "Japanese anime art style, vibrant colors, cel-shaded illustration, manga-inspired",
	"2d":        "flat 2D vector illustration, modern graphic design, clean shapes",
	"comics":    "comic book art style, bold outlines, dynamic panels, graphic novel aesthetic",
	"sketch":    "hand-drawn pencil sketch, artistic linework, sketchy texture",
	"vintage":   "retro vintage style, nostalgic feel, classic poster design, aged aesthetic",
	"disney":    "Disney Pixar animation style, 3D cartoon, whimsical character design",
}

// imageStyleFor combines art style and tone into one directive string for
// the image providers.
func imageStyleFor(tone, style string) string {
	styleDesc, ok := imageStylePrompts[style]
	if !ok {
		styleDesc = "photorealistic"
	}
	toneDesc, ok := toneImageStyles[tone]
	if !ok {
		toneDesc = "clean and modern"
	}
	return styleDesc + ", " + toneDesc
}

// contentSystem is the system prompt for per-platform copy generation.
func contentSystem(platform models.Platform) string {
	return fmt.Sprintf("You are a professional social media content creator specializing in %s. Create engaging, authentic posts optimized for %s's unique audience and format.", platform, platform)
}

// contentPrompt builds the user prompt for generating one platform's copy.
func contentPrompt(topic string, platform models.Platform, tone string) string {
	rules := rulesFor(platform, tone)
	instruction, ok := toneInstructions[tone]
	if !ok {
		instruction = "Be engaging and authentic"
	}

	return fmt.Sprintf(`Create a %s social media post about: %s

Platform: %s
Style: %s
Max length: %d characters
Hashtags: %s

TONE INSTRUCTION: %s

Requirements:
- Make it HIGHLY engaging and scroll-stopping
- Optimize for %s's specific audience
- Include appropriate emojis that enhance the message
- Return ONLY the post text, nothing else

Post:`, tone, topic, strings.ToUpper(string(platform)), rules.Style, rules.MaxLength, rules.Hashtags, instruction, platform)
}

// regenerateSystem is the system prompt for single-platform regeneration.
func regenerateSystem(platform models.Platform) string {
	return fmt.Sprintf("You are a professional social media content creator for %s. Create fresh, engaging alternatives.", platform)
}

// regeneratePrompt builds the user prompt for regenerating one platform's
// copy. The previous attempt is included so the model produces a genuinely
// different version instead of a paraphrase.
func regeneratePrompt(topic string, platform models.Platform, tone, previous string) string {
	rules := rulesFor(platform, tone)
	if previous == "" {
		previous = "N/A"
	}

	return fmt.Sprintf(`Create a %s social media post about: %s

Platform: %s
Style: %s
Max length: %d characters
Hashtags: %s

IMPORTANT: Create a DIFFERENT version from this previous attempt:
%s

Make it engaging and authentic. Return ONLY the post text:`,
		tone, topic, strings.ToUpper(string(platform)), rules.Style, rules.MaxLength, rules.Hashtags, previous)
}

// refineSystem is the system prompt for instruction-driven rewrites.
func refineSystem(platform models.Platform) string {
	return fmt.Sprintf("You are a helpful social media content editor. Refine posts based on user feedback while keeping them optimized for %s.", platform)
}

// refinePrompt builds the user prompt for rewriting existing copy
// according to the operator's instructions.
func refinePrompt(original string, platform models.Platform, instructions string) string {
	return fmt.Sprintf(`Original post for %s:
%s

User wants: %s

Rewrite the post incorporating the user's feedback. Keep it optimized for %s.
Return only the revised post text:`, platform, original, instructions, platform)
}
