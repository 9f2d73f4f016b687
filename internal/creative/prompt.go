package creative

import (
	"fmt"
	"strings"

	"github.com/azulcreative/server/internal/domain"
)

// Request is everything needed to produce a batch of creatives. Settings
// carries the persisted generation parameters; the remaining fields are
// per-request inputs that never reach the gallery.
type Request struct {
	Settings       domain.Settings
	Mood           string
	TextPosition   string
	NegativePrompt string
	ShowCTA        bool
	Count          int
	Logo           *ImageInput
	References     []ImageInput
}

// ImageInput is an uploaded reference or logo image.
type ImageInput struct {
	MimeType string
	Data     []byte
}

// styleInstructions expands a named style into concrete rendering
// directives for the model.
var styleInstructions = map[string]string{
	"Ultra Realistic": "Photorealistic, 8k resolution, raw photo, highly detailed textures, raytracing.",
	"Cinematic":       "Movie scene aesthetics, anamorphic lens flare, shallow depth of field, dramatic lighting, color graded.",
	"Studio Lighting": "Professional photography, softbox lighting, clean background, sharp focus, product photography standard.",
	"Minimalist":      "Clean lines, negative space, simple geometry, pastel or monochromatic tones, clutter-free.",
	"Advertising":     "High-end commercial look, persuasive, glossy finish, perfect composition for sales, punchy colors.",
	"Vibrante / Neon": "Cyberpunk aesthetics, neon lights, high contrast, saturated colors, glowing effects.",
	"3D Illustration": "Pixar/Disney style or Octane Render, smooth surfaces, cute or stylized characters, soft lighting.",
	"Corporate Tech":  "Blue and white palette, hex patterns, modern UI elements, trustworthy, professional, abstract data flows.",
}

const defaultStyleInstructions = "High quality professional design."

// layoutInstructions returns category-specific composition rules.
func layoutInstructions(category string) string {
	switch category {
	case "YouTube Thumbnail":
		return "Composition rule: Rule of Thirds. High contrast. Facial expressions must be exaggerated if present. Background must be exciting but slightly blurred to pop the subject."
	case "Instagram Post":
		return "Aesthetic composition. Balanced visual weight. Lifestyle approach."
	case "Web Banner":
		return "Horizontal layout. Leave clear empty space (negative space) on the side for text readability."
	default:
		return ""
	}
}

// MapAspectRatio converts a user-facing format into one of the aspect
// ratios the image API strictly supports: 1:1, 3:4, 4:3, 9:16 and 16:9.
// Non-native formats map to their closest supported neighbor.
func MapAspectRatio(format string) string {
	switch format {
	case "1:1":
		return "1:1"
	case "16:9":
		return "16:9"
	case "9:16":
		return "9:16"
	case "4:5":
		return "3:4"
	case "2:1":
		return "16:9"
	}
	switch {
	case strings.Contains(format, "16:9"):
		return "16:9"
	case strings.Contains(format, "9:16"):
		return "9:16"
	case strings.Contains(format, "Portrait"):
		return "3:4"
	}
	return "1:1"
}

// BuildPrompt assembles the full instruction text for one generation
// request. The annotations for the logo and reference images refer to
// their positional order in the request parts, so the text must be built
// with the same image ordering the caller sends: logo first, then
// references.
func BuildPrompt(req Request) string {
	s := req.Settings

	style, ok := styleInstructions[s.Style]
	if !ok {
		style = defaultStyleInstructions
	}

	mood := req.Mood
	if mood == "" {
		mood = "Professional"
	}

	palette := s.ColorPalette
	if palette == "" {
		palette = "Harmonious professional palette matching the style."
	}

	var b strings.Builder
	fmt.Fprintf(&b, `ROLE: You are an Elite Digital Artist and Art Director.
TASK: Create a single image for a %q campaign.

--- VISUAL IDENTITY & PARAMETERS ---
STYLE ENGINE: %s (%s)
ATMOSPHERE / MOOD: %s (Ensure lighting and colors reflect this emotion).
TARGET AUDIENCE/NICHE: %s
`, s.Category, s.Style, style, mood, s.Niche)

	if s.Category == "Ad Creative" {
		fmt.Fprintf(&b, "CAMPAIGN OBJECTIVE: %s (Optimize visual elements to achieve this).\n", s.Objective)
	}
	fmt.Fprintf(&b, "COLOR PALETTE: %s\n", palette)

	fmt.Fprintf(&b, `
--- SCENE DESCRIPTION ---
%s

--- COMPOSITION & ASPECT RATIO ---
Desired Aspect Ratio: %s
Instructions: Compose the image to fit strictly within a %s frame.
`, s.Description, s.Format, s.Format)

	switch s.Format {
	case "4:5":
		b.WriteString("Ensure the subject is centered vertically with space at top/bottom.\n")
	case "2:1":
		b.WriteString("Create a wide panoramic composition.\n")
	}

	cta := "NO additional buttons."
	if req.ShowCTA && s.CTAText != "" {
		cta = fmt.Sprintf("CTA Button/Badge: %q", s.CTAText)
	}
	placement := req.TextPosition
	if placement == "" {
		placement = "Balanced Composition"
	}

	fmt.Fprintf(&b, `
--- COPYWRITING & TEXT RENDERING (CRITICAL) ---
The image MUST include the following text rendered visibly:
Headline/Text: %q
%s

TEXT PLACEMENT: %s

*** STRICT ORTHOGRAPHY RULES ***
1. PRESERVE DOUBLE LETTERS ("SS"):
   - Words like "Passo", "Sucesso", "Processo", "Isso", "Massa" MUST KEEP THE DOUBLE 'S'.
   - NEVER simplify to single 'S' (e.g. "Paso" is WRONG).

2. PRESERVE EQUAL WORDS:
   - If a word appears twice, SPELL IT IDENTICALLY BOTH TIMES.
   - Example: "Passo a Passo" -> BOTH must have "SS".
   - Do NOT write "Passo a Paso".

3. VERBATIM COPY:
   - Render the text EXACTLY as typed in "Headline/Text".
`, s.TextOnImage, cta, placement)

	if req.NegativePrompt != "" {
		fmt.Fprintf(&b, `
--- NEGATIVE PROMPT (AVOID) ---
AVOID THE FOLLOWING: %s, Spanish spelling, Typos, Missing letters, "Paso", "Suceso".
`, req.NegativePrompt)
	}

	imageIndex := 1
	if req.Logo != nil {
		fmt.Fprintf(&b, `
--- BRANDING ASSETS (CRITICAL) ---
Input Image #%d is the BRAND LOGO.
INSTRUCTION: Place this logo into the image as a SMALL, DISCRETE SIGNATURE.

SIZE CONSTRAINT:
- The logo MUST be small (approx. 15%% of the image width).
- Do NOT make it giant or dominant. It should not compete with the main subject.

POSITION:
- Corner (Top-Right or Top-Left) or Bottom-Center.
- Keep it purely 2D (Overlay/Watermark style).

STRICT RULES:
1. Do NOT distort the logo.
2. Do NOT turn it into a 3D object.
3. Maintain high contrast visibility.
`, imageIndex)
		imageIndex++
	}

	if n := len(req.References); n > 0 {
		if n == 1 {
			fmt.Fprintf(&b, `
--- VISUAL REFERENCES ---
Input Image #%d is a VISUAL REFERENCE.
INSTRUCTION: Use the composition, lighting mood, and color grading of this image as a guide.
`, imageIndex)
		} else {
			fmt.Fprintf(&b, `
--- VISUAL REFERENCES ---
Input Images #%d to #%d are VISUAL REFERENCES.
INSTRUCTION: Use the composition, lighting mood, and color grading of these images as a guide.
`, imageIndex, imageIndex+n-1)
		}

		// With exactly one reference and a terse description the user is
		// editing rather than creating, so the model should preserve the
		// reference structure.
		if n == 1 && len(s.Description) < 50 {
			b.WriteString(`
MODE: IMAGE-TO-IMAGE EDITING.
Keep the main structure of the Reference Image. Only change the text or correct the details requested.
`)
		}
	}

	fmt.Fprintf(&b, `
--- FINAL OUTPUT RULES ---
- Layout: %s
- Quality: 4k, high resolution, sharp details.
`, layoutInstructions(s.Category))

	return b.String()
}
