// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// EnhancedPrompts is the result of running the operator's raw topic
// through the prompt enhancer. When enhancement fails or no provider is
// configured, both prompts fall back to the original topic and Enhanced
// is false; generation always proceeds.
type EnhancedPrompts struct {
	ContentPrompt  string `json:"content_prompt"`
	ImagePrompt    string `json:"image_prompt"`
	OriginalPrompt string `json:"original_prompt"`
	Enhanced       bool   `json:"enhanced"`
}

// enhanceToneGuidelines give the enhancer detailed direction per tone.
var enhanceToneGuidelines = map[string]string{
	"casual":        "friendly, conversational, relatable language with warmth and approachability. Use everyday language, personal anecdotes, and create connection.",
	"professional":  "formal, authoritative, business-appropriate language with expertise and credibility. Use industry terminology, data-driven insights, and professional tone.",
	"corporate":     "ULTRA-MINIMAL text - only 1-2 sentences maximum. Think Apple/Tesla minimalism. Clean, simple, impactful language with NO fluff, NO hashtags, NO emojis. Pure sophistication.",
	"funny":         "hilarious, witty, entertaining language with humor and comedic timing. Use jokes, puns, pop culture references, and make people laugh out loud.",
	"inspirational": "motivational, uplifting, empowering language with emotional depth. Use powerful quotes, success stories, and drive action through inspiration.",
	"educational":   "informative, teaching-focused, clear explanations with valuable insights. Use step-by-step guidance, facts, and help audience learn.",
	"storytelling":  "narrative-driven, emotional, engaging story structure with character and plot. Use story arcs, emotional hooks, and compelling narratives.",
	"promotional":   "persuasive, sales-focused, action-oriented language with urgency. Use strong CTAs, benefits-focused messaging, and create FOMO.",
}

// enhanceStyleGuidelines give the enhancer detailed visual direction per
// image style.
var enhanceStyleGuidelines = map[string]string{
	"realistic": "PHOTOREALISTIC style: Professional photography quality with real-world textures, natural lighting, authentic details, high-resolution clarity, lifelike colors, and camera-shot composition. Like a professional photographer's work.",
	"minimal":   "ULTRA-MINIMALIST style: Clean white/neutral backgrounds, single focal subject, MAXIMUM negative space, Apple-style simplicity, geometric precision, NO text overlays, NO clutter. Think Apple product ads - pure, clean, sophisticated.",
	"anime":     "JAPANESE ANIME style: Vibrant cel-shaded colors, manga-inspired character designs, dynamic action poses, expressive large eyes, clean outlined illustration, colorful backgrounds, Japanese animation aesthetic. Think Studio Ghibli or popular anime series.",
	"2d":        "FLAT 2D ILLUSTRATION style: Modern vector graphics, geometric shapes, flat colors without gradients, clean lines, contemporary graphic design, minimalist illustration approach. Think modern app design or infographics.",
	"comics":    "COMIC BOOK ART style: Bold black outlines, dynamic action panels, speech bubble aesthetic (no actual text), vibrant primary colors, dramatic shading, graphic novel atmosphere, superhero comic aesthetic.",
	"sketch":    "HAND-DRAWN SKETCH style: Pencil or charcoal sketch appearance, artistic linework, sketchy textures, visible pencil strokes, artistic imperfection, raw creative energy, hand-crafted feel.",
	"vintage":   "VINTAGE RETRO style: 1950s-1980s aesthetic, aged paper texture, retro color palette (muted oranges, browns, creams), classic poster design, nostalgic feel, old-school typography style, weathered look.",
	"disney":    "DISNEY PIXAR style: 3D animated cartoon aesthetic, whimsical character design, bright cheerful colors, rounded friendly shapes, Pixar-quality 3D rendering, family-friendly warm atmosphere.",
}

const enhanceSystem = `You are a MASTER prompt engineer with 10+ years of experience in viral social media marketing and AI art generation.

Your expertise includes:
- Creating prompts that generate 10x more engagement
- Deep understanding of platform algorithms and audience psychology
- Expert knowledge of AI image models and optimal prompt structure
- Ability to transform vague ideas into crystal-clear, actionable instructions
- Mastery of visual composition, lighting, color theory, and artistic styles

You ALWAYS provide extremely detailed, specific prompts - never vague or generic.`

// EnhancePrompt turns the operator's raw topic into two detailed prompts:
// one for per-platform copy generation and one for image generation.
// Degrades gracefully: any failure returns the original topic unenhanced.
func EnhancePrompt(ctx context.Context, provider Provider, topic, tone, style string) *EnhancedPrompts {
	fallback := &EnhancedPrompts{
		ContentPrompt:  topic,
		ImagePrompt:    topic,
		OriginalPrompt: topic,
		Enhanced:       false,
	}
	if provider == nil {
		return fallback
	}

	toneReq, ok := enhanceToneGuidelines[tone]
	if !ok {
		toneReq = "engaging and authentic"
	}
	styleReq, ok := enhanceStyleGuidelines[style]
	if !ok {
		styleReq = "professional quality"
	}

	prompt := fmt.Sprintf(`You transform basic ideas into professional, highly-detailed prompts.

USER'S BASIC IDEA: %q

SELECTED TONE: %s
TONE REQUIREMENTS: %s

SELECTED IMAGE STYLE: %s
IMAGE STYLE REQUIREMENTS: %s

YOUR MISSION:
Create TWO highly-detailed, professional prompts that will generate EXCEPTIONAL results:

1. CONTENT PROMPT (for social media text generation):
Transform the basic idea into a RICH, DETAILED prompt that captures:
   - Main message and key themes
   - Specific emotions to evoke
   - Target audience considerations
   - Platform-specific best practices (Facebook: conversational; Instagram: visual focus; Twitter: concise; Reddit: authentic)
   - Tone-specific requirements (see TONE REQUIREMENTS above)
   - Engagement hooks and call-to-action approach

2. IMAGE PROMPT (for AI image generation):
Transform the basic idea into an EXTREMELY DETAILED visual description:
   - Exact subject/scene description
   - Precise composition and framing
   - Specific colors and color palette
   - Detailed lighting description
   - Exact mood and atmosphere
   - Style-specific elements (see IMAGE STYLE REQUIREMENTS above)

Be HYPER-SPECIFIC about visual details. Instead of "a product", say "a sleek silver smartphone at 45-degree angle on white marble surface with soft shadows".

Return ONLY valid JSON in this exact format:
{
  "content_prompt": "your enhanced detailed content prompt here",
  "image_prompt": "your enhanced detailed image prompt here"
}

NO other text, NO explanations, ONLY the JSON.`, topic, tone, toneReq, style, styleReq)

	raw, err := provider.Generate(ctx, ChatRequest{
		System:      enhanceSystem,
		User:        prompt,
		Temperature: 0.8,
		MaxTokens:   800,
	})
	if err != nil {
		slog.Warn("prompt enhancement failed, using original topic", "error", err)
		return fallback
	}

	var parsed struct {
		ContentPrompt string `json:"content_prompt"`
		ImagePrompt   string `json:"image_prompt"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		slog.Warn("prompt enhancement returned invalid JSON, using original topic", "error", err)
		return fallback
	}
	if parsed.ContentPrompt == "" {
		parsed.ContentPrompt = topic
	}
	if parsed.ImagePrompt == "" {
		parsed.ImagePrompt = topic
	}

	return &EnhancedPrompts{
		ContentPrompt:  parsed.ContentPrompt,
		ImagePrompt:    parsed.ImagePrompt,
		OriginalPrompt: topic,
		Enhanced:       true,
	}
}

// stripCodeFence removes a markdown code fence some models wrap JSON
// responses in despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
