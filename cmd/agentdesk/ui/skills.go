package ui

import (
	"strconv"
	"strings"

	"agentdesk/internal/agentapi"
)

// DisplayName drops the first "Skill" from a skill name, so
// "CalculatorSkill" is shown as "Calculator".
func DisplayName(name string) string {
	if d := strings.Replace(name, "Skill", "", 1); d != "" {
		return d
	}
	return name
}

// Blurb is the one-line description shown under a skill. Skills without a
// server-provided description get a generated one.
func Blurb(s agentapi.Skill) string {
	if d := strings.TrimSpace(s.Description); d != "" {
		return d
	}
	base := strings.Replace(strings.ToLower(s.Name), "skill", "", 1)
	return "AI-powered " + base + " functionality"
}

var exampleRequests = map[string][]string{
	"CalculatorSkill": {"Calculate 5 * 3", "Calculate 10 + 5", "Calculate (2 + 3) * 4"},
	"WeatherSkill":    {"What's the weather in New York?", "Get weather for London"},
	"SummarizeSkill":  {"Summarize this article: [paste text]", "Give me a summary of: [content]"},
	"MockSearchSkill": {"Search for information about AI", "Find articles about machine learning"},
	"OsqueryMCPSkill": {"Run system query", "Check system information"},
}

// ExampleRequests returns sample requests for the well-known skills, or nil.
func ExampleRequests(name string) []string {
	return exampleRequests[name]
}

// Placeholder is the input hint for the selected skill.
func Placeholder(name string) string {
	if name == "" {
		return "Select a skill first (ctrl+s)"
	}
	return "Enter your request for " + DisplayName(name) + "..."
}

// SkillItem adapts a skill to the bubbles list.
type SkillItem struct {
	Skill    agentapi.Skill
	Selected bool
}

// Title implements list.DefaultItem.
func (i SkillItem) Title() string {
	if i.Selected {
		return "● " + DisplayName(i.Skill.Name)
	}
	return DisplayName(i.Skill.Name)
}

// Description implements list.DefaultItem.
func (i SkillItem) Description() string { return Blurb(i.Skill) }

// FilterValue implements list.Item.
func (i SkillItem) FilterValue() string { return i.Skill.Name }

// MenuHeading is the side panel title.
func MenuHeading(count int) string {
	return "AI Skills (" + strconv.Itoa(count) + ")"
}
