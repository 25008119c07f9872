package gui

import (
	"log"
	"strings"

	darkmode "github.com/thiagokokada/dark-mode-go"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

type colorPalette struct {
	ThemeName  string
	CanvasBG   string
	CanvasFG   string
	NodeFill   string
	HeadFill   string
	HeadText   string
	DiffAdd    string
	DiffDel    string
	DiffHeader string
}

var (
	lightPalette = colorPalette{
		ThemeName:  "azure light",
		CanvasBG:   "#ffffff",
		CanvasFG:   "#111111",
		NodeFill:   "white",
		HeadFill:   "#ffd75e",
		HeadText:   "#111111",
		DiffAdd:    "#dff5de",
		DiffDel:    "#f9d6d5",
		DiffHeader: "#e4e4e4",
	}
	darkPalette = colorPalette{
		ThemeName:  "azure dark",
		CanvasBG:   "#1e1e1e",
		CanvasFG:   "#eaeaea",
		NodeFill:   "#1e1e1e",
		HeadFill:   "#b58900",
		HeadText:   "#111111",
		DiffAdd:    "#1f3d2b",
		DiffDel:    "#3d1f29",
		DiffHeader: "#2f2f2f",
	}
	detectDarkMode = darkmode.IsDarkMode
)

func ThemePreferenceFromString(raw string) ThemePreference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	default:
		return ThemeAuto
	}
}

func paletteForPreference(pref ThemePreference) colorPalette {
	switch pref {
	case ThemeDark:
		return darkPalette
	case ThemeLight:
		return lightPalette
	default:
		if detectDarkMode != nil {
			if dark, err := detectDarkMode(); err == nil {
				if dark {
					return darkPalette
				}
			} else {
				log.Printf("detect dark-mode: %v", err)
			}
		}
		return lightPalette
	}
}

func (p colorPalette) isDark() bool {
	return strings.Contains(strings.ToLower(p.ThemeName), "dark")
}

// paletteSize is the number of distinct edge colors; edges pick their
// color from the wider of the two lanes they connect, modulo this size.
const paletteSize = 7

func laneColors(dark bool) []string {
	// Based on gitk's default colors; keep a small, high-contrast palette.
	if dark {
		return []string{"#00ff00", "#ff5c5c", "#4fa3ff", "#d56bff", "#a0a0a0", "#d09a6b", "#ffb347"}
	}
	return []string{"#00cc00", "#cc0000", "#0055cc", "#aa00aa", "#555555", "#8b4513", "#ff8c00"}
}

func colorFor(paletteIndex int, dark bool) string {
	colors := laneColors(dark)
	if paletteIndex < 0 {
		paletteIndex = 0
	}
	return colors[paletteIndex%len(colors)]
}
