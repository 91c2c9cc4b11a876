// Package tolerance defines the deviation tolerance levels that modulate LLM
// prompt construction. Each level carries a percentage ceiling and an
// instruction string that is embedded in the personalization prompt.
package tolerance

// Level describes one deviation tolerance setting.
type Level struct {
	Name string
	// Limit is the maximum allowed deviation percentage for this level.
	Limit int
	// Instruction steers the model toward the allowed amount of deviation.
	Instruction string
}

// DefaultName is the level used when a caller supplies an unrecognized
// tolerance name. Lookup never fails; it falls back to this level.
const DefaultName = "minimal"

// builtins is the registry of tolerance levels keyed by name.
var builtins = map[string]Level{
	"strict": {
		Name:  "strict",
		Limit: 10,
		Instruction: "Follow the standard response EXACTLY. Make only minimal changes " +
			"necessary to address the specific customer inquiry. Deviation should be " +
			"less than 10%.",
	},
	"minimal": {
		Name:  "minimal",
		Limit: 25,
		Instruction: "Follow the standard response closely but allow minor modifications " +
			"to better address the customer inquiry. Deviation should be less than 25%.",
	},
	"moderate": {
		Name:  "moderate",
		Limit: 50,
		Instruction: "Use the standard response as a strong guideline but allow moderate " +
			"changes to personalize and improve the response. Deviation should be less than 50%.",
	},
	"flexible": {
		Name:  "flexible",
		Limit: 70,
		Instruction: "Use the standard response as a foundation but feel free to " +
			"significantly modify to create the best possible response. Deviation can be up to 70%.",
	},
}

// Lookup returns the level for name, falling back to the minimal level when
// the name is unknown. Unknown names are tolerated rather than rejected so a
// bad setting degrades to the conservative default instead of failing a
// request.
func Lookup(name string) Level {
	if lvl, ok := builtins[name]; ok {
		return lvl
	}
	return builtins[DefaultName]
}

// Limit returns the maximum allowed deviation percentage for name, applying
// the same fallback as Lookup.
func Limit(name string) int {
	return Lookup(name).Limit
}

// Names returns the tolerance names in ascending order of permissiveness.
func Names() []string {
	return []string{"strict", "minimal", "moderate", "flexible"}
}
