package token

import (
	"fmt"
	"strings"
)

// Theme is the cosmetic flavor picked on the first wizard step.
type Theme string

const (
	ThemeDog       Theme = "dog"
	ThemeCat       Theme = "cat"
	ThemeFrog      Theme = "frog"
	ThemeAI        Theme = "ai"
	ThemePolitical Theme = "political"
	ThemeCustom    Theme = "custom"
)

// ThemeInfo pairs a theme value with its display copy.
type ThemeInfo struct {
	Value       Theme  `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Themes returns the fixed theme catalog in display order.
func Themes() []ThemeInfo {
	return []ThemeInfo{
		{ThemeDog, "Dog Meme", "Classic dog-themed meme coin"},
		{ThemeCat, "Cat Meme", "Feline-focused community token"},
		{ThemeFrog, "Frog Meme", "Amphibian-inspired viral coin"},
		{ThemeAI, "AI Theme", "Artificial intelligence focused"},
		{ThemePolitical, "Political", "Political commentary token"},
		{ThemeCustom, "Custom", "Your unique concept"},
	}
}

// ParseTheme accepts a catalog value; empty input falls back to custom.
func ParseTheme(s string) (Theme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ThemeCustom, nil
	}
	for _, t := range Themes() {
		if string(t.Value) == s {
			return t.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// ViralFeatureCatalog is the fixed tag set offered on the second step.
func ViralFeatureCatalog() []string {
	return []string{
		"Community-driven growth",
		"Meme-powered marketing",
		"Influencer partnerships",
		"Gaming utility",
		"NFT integration",
		"DeFi yield farming",
		"Viral social media campaigns",
		"Decentralized governance",
	}
}

// IsViralFeature reports whether f is a catalog entry.
func IsViralFeature(f string) bool {
	for _, v := range ViralFeatureCatalog() {
		if v == f {
			return true
		}
	}
	return false
}
