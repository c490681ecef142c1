package generation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibrochure/brochure-api/internal/generation"
)

func TestExtractHotelName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "quoted name wins verbatim",
			prompt: `Generate a brochure for "Ocean Breeze Villas" in Bali`,
			want:   "Ocean Breeze Villas",
		},
		{
			name:   "quoted name preferred over for phrase",
			prompt: `Make something for "The Hideaway" resort`,
			want:   "The Hideaway",
		},
		{
			name:   "for phrase truncated before resort keyword",
			prompt: "Create content for the grand paradise resort in Hawaii",
			want:   "The Grand Paradise",
		},
		{
			name:   "for phrase truncated at comma",
			prompt: "Design a brochure for sunset bay, a quiet retreat",
			want:   "The Sunset Bay",
		},
		{
			name:   "for phrase title-cased with The prefix",
			prompt: "A flyer for ocean breeze villas",
			want:   "The Ocean Breeze Villas",
		},
		{
			name:   "resort keyword without for phrase",
			prompt: "The mountain view resort needs a brochure",
			want:   "The Mountain view Resort",
		},
		{
			name:   "no signal falls back to default",
			prompt: "A tropical getaway",
			want:   generation.DefaultHotelName,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, generation.ExtractHotelName(tc.prompt))
		})
	}
}

func TestExtractLocation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "word after in",
			prompt: "A luxury spa in Seychelles with ocean views",
			want:   "Seychelles",
		},
		{
			name:   "word after at",
			prompt: "A weekend stay at Fiji.",
			want:   "Fiji",
		},
		{
			name:   "punctuation trimmed from token",
			prompt: "A resort in Bali, with private pools",
			want:   "Bali",
		},
		{
			name:   "known destination without preposition",
			prompt: "The best Maldives honeymoon packages",
			want:   "Maldives",
		},
		{
			name:   "no signal falls back to default",
			prompt: "A tropical getaway",
			want:   generation.DefaultLocation,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, generation.ExtractLocation(tc.prompt))
		})
	}
}

func TestExtractTheme(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "case-insensitive match",
			prompt: "A wellness retreat in the mountains",
			want:   "Wellness",
		},
		{
			name:   "first theme in fixed order wins",
			prompt: "A luxury beach resort",
			want:   "Luxury",
		},
		{
			name:   "adventure theme",
			prompt: "An ADVENTURE trip for families",
			want:   "Adventure",
		},
		{
			name:   "no signal falls back to default",
			prompt: "A tropical getaway",
			want:   generation.DefaultTheme,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, generation.ExtractTheme(tc.prompt))
		})
	}
}

func TestAnalyze_ImagePrompts(t *testing.T) {
	t.Parallel()

	t.Run("distinct phrases in keyword order", func(t *testing.T) {
		t.Parallel()
		result := generation.Analyze("A resort featuring infinity pools, with mountain views.")
		assert.Equal(t, []string{"infinity pools", "mountain views"}, result.ImagePrompts)
	})

	t.Run("duplicate phrases collapsed", func(t *testing.T) {
		t.Parallel()
		result := generation.Analyze("A villa with a private pool, including a private pool")
		assert.Equal(t, []string{"a private pool"}, result.ImagePrompts)
	})

	t.Run("whole prompt when no keyword matches", func(t *testing.T) {
		t.Parallel()
		prompt := "A quiet seaside escape"
		result := generation.Analyze(prompt)
		require.Len(t, result.ImagePrompts, 1)
		assert.Equal(t, prompt, result.ImagePrompts[0])
	})
}

func TestAnalyze_TextPrompt(t *testing.T) {
	t.Parallel()

	t.Run("framed with content prefix", func(t *testing.T) {
		t.Parallel()
		result := generation.Analyze("A luxury resort in Bali")
		assert.True(t, strings.HasPrefix(result.TextPrompt, "Create engaging travel content for: "))
		assert.Contains(t, result.TextPrompt, "A luxury resort in Bali")
	})

	t.Run("image-directed phrases stripped", func(t *testing.T) {
		t.Parallel()
		result := generation.Analyze("A luxury resort, show beautiful pools, in Bali")
		assert.NotContains(t, result.TextPrompt, "beautiful pools")
		assert.Contains(t, result.TextPrompt, "A luxury resort")
	})
}
