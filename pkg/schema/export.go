package schema

import "strings"

// Export bundles a script with the extra knobs external video tools ask for.
type Export struct {
	Script
	NegativePrompt string `json:"negative_prompt"`
	Seed           int64  `json:"seed"`
}

const baseNegativePrompt = "text, captions, subtitles, watermark, logo, on-screen text, overlays, " +
	"blurry, low quality, deformed hands, extra limbs, inconsistent face, changing outfit"

var styleNegatives = map[string]string{
	"Realistic": "cartoon, anime, illustration, cgi, plastic skin",
	"Anime":     "photorealistic, live action, 3d render, uncanny realism",
	"Cyberpunk": "daylight pastoral, muted colors, rustic, vintage sepia",
}

// NegativePrompt derives the negative prompt for a visual style.
func NegativePrompt(visualStyle string) string {
	neg, ok := styleNegatives[visualStyle]
	if !ok {
		for k, v := range styleNegatives {
			if strings.EqualFold(k, visualStyle) {
				neg, ok = v, true
				break
			}
		}
	}
	if !ok {
		return baseNegativePrompt
	}
	return baseNegativePrompt + ", " + neg
}

// NewExport builds the export bundle. The seed is supplied by the caller.
func NewExport(s Script, seed int64) Export {
	return Export{
		Script:         s,
		NegativePrompt: NegativePrompt(s.VisualStyle),
		Seed:           seed,
	}
}
