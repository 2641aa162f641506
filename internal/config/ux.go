package config

// UIConfig holds terminal console configuration.
type UIConfig struct {
	// Mode selects the presentation: "goal" sends free-form goals to the
	// whole agent, "skills" scopes each goal to one selected skill.
	Mode string `yaml:"mode"`

	// Theme is light, dark or auto (detected from the terminal).
	Theme string `yaml:"theme"`

	// Mouse enables mouse cell motion so clicks can close the skill menu.
	Mouse bool `yaml:"mouse"`

	// MenuWidth is the width of the skill side panel in cells.
	MenuWidth int `yaml:"menu_width,omitempty"`
}

const (
	ModeGoal   = "goal"
	ModeSkills = "skills"

	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// ValidModes lists the supported presentation modes.
var ValidModes = []string{ModeGoal, ModeSkills}

// ValidThemes lists the supported themes.
var ValidThemes = []string{ThemeLight, ThemeDark, ThemeAuto}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() UIConfig {
	return UIConfig{
		Mode:      ModeSkills,
		Theme:     ThemeAuto,
		Mouse:     true,
		MenuWidth: 36,
	}
}
