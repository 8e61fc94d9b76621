package domain

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AspectRatio enumerates the video formats the provider accepts.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// ParseAspectRatio validates a wire-level aspect ratio value.
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch AspectRatio(s) {
	case AspectLandscape, AspectPortrait:
		return AspectRatio(s), nil
	default:
		return "", fmt.Errorf("%w: aspect ratio %q", ErrInvalidInput, s)
	}
}

// AnimationOption is one entry in the animation template catalog. The same
// catalog doubles as the list of add-on effects.
type AnimationOption struct {
	ID          string
	Title       string
	Description string
	Prompt      string
}

// AnimationOptions is the fixed template catalog offered to users.
var AnimationOptions = []AnimationOption{
	{
		ID:          "turntable",
		Title:       "Turntable",
		Description: "A smooth, 360-degree rotation of the main subject.",
		Prompt:      "A cinematic, high-quality video of the main subject rotating 360 degrees on a turntable, studio lighting, on a clean, reflective surface.",
	},
	{
		ID:          "gentle-fall",
		Title:       "Gentle Fall",
		Description: "The product gently falls from the top onto a surface.",
		Prompt:      "A cinematic, high-quality slow-motion video of the main subject gently falling from above and landing softly on a clean, white table.",
	},
	{
		ID:          "magic-appear",
		Title:       "Magic Appear",
		Description: "The product appears on a table with a magical sparkle.",
		Prompt:      "A cinematic, high-quality video where the main subject magically appears on a table with a burst of sparkling, ethereal light particles.",
	},
	{
		ID:          "water-splash",
		Title:       "Water Splash",
		Description: "Refreshing water splashes around the product.",
		Prompt:      "A cinematic, high-quality video of the product on a clean surface with refreshing, clear water splashing around it in slow motion, conveying a sense of coolness and cleanliness.",
	},
}

// AnimationByID looks up a catalog entry.
func AnimationByID(id string) (AnimationOption, bool) {
	for _, opt := range AnimationOptions {
		if opt.ID == id {
			return opt, true
		}
	}
	return AnimationOption{}, false
}

const addOnLeadIn = " Additionally, the following effect should be applied: "

var lowerCaser = cases.Lower(language.English)

// ComposePrompt builds the final instruction sent to the provider: the base
// animation prompt, optionally followed by the fixed add-on lead-in and the
// lower-cased description of the add-on effect.
func ComposePrompt(animation AnimationOption, addOn *AnimationOption) string {
	if addOn == nil {
		return animation.Prompt
	}
	return animation.Prompt + addOnLeadIn + lowerCaser.String(addOn.Description)
}
