// internal/transform/knowledge.go
package transform

import "strings"

// switchProfile carries generic descriptive knowledge for a catalog switch,
// used to fill best-effort fields the source markdown does not cover.
type switchProfile struct {
	soundProfile    string
	feelDescription string
	recommendation  string
}

var switchProfiles = map[string]switchProfile{
	"Cherry MX Red": {
		soundProfile:    "Quiet and smooth with a soft bottom-out.",
		feelDescription: "Light linear travel with no tactile bump.",
		recommendation:  "A safe pick for gaming and long typing sessions.",
	},
	"Cherry MX Brown": {
		soundProfile:    "Muted with a light tactile rustle.",
		feelDescription: "Gentle tactile bump partway through the stroke.",
		recommendation:  "A balanced choice for mixed typing and gaming.",
	},
	"Cherry MX Blue": {
		soundProfile:    "Loud click on every actuation.",
		feelDescription: "Pronounced tactile bump with an audible click jacket.",
		recommendation:  "Best for typists who want maximum feedback, not for shared spaces.",
	},
	"Gateron Yellow": {
		soundProfile:    "Deep and slightly thocky for a budget linear.",
		feelDescription: "Smooth mid-weight linear travel.",
		recommendation:  "Outstanding value for a first linear build.",
	},
	"Gateron Oil King": {
		soundProfile:    "Deep, muted thock from the factory.",
		feelDescription: "Very smooth pre-lubed linear stroke.",
		recommendation:  "A premium linear that needs no aftermarket lubing.",
	},
	"Kailh Box White": {
		soundProfile:    "Sharp, high-pitched click from the click bar.",
		feelDescription: "Crisp clicky actuation with short travel.",
		recommendation:  "The go-to budget clicky switch.",
	},
	"Holy Panda": {
		soundProfile:    "Clacky with a pronounced top-out.",
		feelDescription: "Large, rounded tactile bump right at the top of travel.",
		recommendation:  "For tactility enthusiasts who type with intent.",
	},
	"Boba U4T": {
		soundProfile:    "Deep thock with a strong bottom-out.",
		feelDescription: "Sharp, heavy tactile bump through silicone-damped housing.",
		recommendation:  "A modern tactile favorite for sound-focused builds.",
	},
	"NovelKeys Cream": {
		soundProfile:    "Distinctive clack that deepens as the POM breaks in.",
		feelDescription: "Self-lubricating POM stroke, scratchy at first then smooth.",
		recommendation:  "Rewards patience or a break-in machine.",
	},
}

func profileFor(name string) (switchProfile, bool) {
	p, ok := switchProfiles[name]
	return p, ok
}

// materialNotes describe common switch housing and stem materials.
var materialNotes = []struct {
	name string
	note string
}{
	{"POM", "Self-lubricating polymer used for stems and full-POM housings; deepens sound over time."},
	{"polycarbonate", "Clear, stiff top-housing plastic that produces a higher-pitched, clacky sound."},
	{"nylon", "Classic bottom-housing plastic giving a deeper, fuller bottom-out sound."},
	{"UHMWPE", "Very low-friction stem material, extremely smooth but soft."},
	{"PBT", "Dense keycap plastic resistant to shine; slightly muted sound."},
	{"ABS", "Common keycap plastic, brighter sound, develops shine with use."},
	{"aluminum", "Plate and case metal; stiff mounting with a brighter acoustic signature."},
	{"brass", "Heavy plate metal with a resonant, high-pitched ping if unmuted."},
	{"silicone", "Dampening material used in gaskets and case foam to kill resonance."},
	{"steel", "Stiffest common plate material; pronounced feedback on bottom-out."},
}

// characteristicNotes describe switch characteristics referenced in
// explanations.
var characteristicNotes = []struct {
	name string
	note string
}{
	{"actuation force", "The weight at which a keypress registers, usually given in grams."},
	{"actuation", "The point in the stroke where the keypress registers."},
	{"tactility", "The bump felt during the stroke signaling actuation."},
	{"travel", "Total distance the stem moves from rest to bottom-out."},
	{"spring weight", "Resistance of the spring, shaping how heavy the switch feels."},
	{"bottom-out", "The end of the stroke where the stem hits the housing."},
	{"smoothness", "Absence of scratch or friction through the stroke."},
	{"sound profile", "The acoustic character of the switch, from thocky to clacky."},
	{"lubing", "Applying lubricant to rails and springs to reduce scratch and ping."},
	{"stem wobble", "Lateral play of the stem inside the housing."},
	{"pre-travel", "Distance the stem moves before actuation."},
}

// knownMaterialsIn returns the materials mentioned in text, in the fixed
// order of materialNotes so output is stable across invocations.
func knownMaterialsIn(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, m := range materialNotes {
		if strings.Contains(lower, strings.ToLower(m.name)) {
			found = append(found, m.name)
		}
	}
	return found
}

func materialNote(name string) string {
	for _, m := range materialNotes {
		if strings.EqualFold(m.name, name) {
			return m.note
		}
	}
	return ""
}

// knownCharacteristicsIn returns the characteristics mentioned in text, in
// the fixed order of characteristicNotes. A name that is a substring of an
// already matched longer name is skipped, so "actuation force" suppresses
// plain "actuation".
func knownCharacteristicsIn(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, c := range characteristicNotes {
		if !strings.Contains(lower, c.name) {
			continue
		}
		shadowed := false
		for _, f := range found {
			if strings.Contains(f, c.name) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			found = append(found, c.name)
		}
	}
	return found
}

func characteristicNote(name string) string {
	for _, c := range characteristicNotes {
		if strings.EqualFold(c.name, name) {
			return c.note
		}
	}
	return ""
}
