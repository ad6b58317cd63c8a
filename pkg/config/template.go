package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// Template formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every registered rule.
	Full bool

	// Format is "yaml" or "toml".
	Format string
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Options     map[string]any
}

// RuleInfoProvider returns information about the registered rules.
// It keeps this package free of an import on the rule engine.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rule engine during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a commented configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var rules []RuleInfo
	if opts.Full && DefaultRuleInfoProvider != nil {
		rules = DefaultRuleInfoProvider()
		slices.SortFunc(rules, func(a, b RuleInfo) int { return strings.Compare(a.ID, b.ID) })
	}

	switch opts.Format {
	case "", TemplateYAML:
		return yamlTemplate(rules), nil
	case TemplateTOML:
		return tomlTemplate(rules), nil
	default:
		return nil, fmt.Errorf("unknown template format %q", opts.Format)
	}
}

func yamlTemplate(rules []RuleInfo) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `# luaufmt configuration

# File patterns to skip (glob patterns)
ignore:
  - "%s/**"

# Keep a .luaufmt.bak copy next to every formatted file
backups:
  enabled: false
  mode: sidecar

# Knit and Wally insertion helpers
knit:
  # auto, always or never
  workspace: auto
  packages_root: %s
  packages_dir: %s

watch:
  format_on_write: false
  debounce_ms: %d
`, DefaultPackagesDir, DefaultPackagesRoot, DefaultPackagesDir, DefaultDebounceMS)

	if len(rules) == 0 {
		buf.WriteString(`
# Rule-specific configuration
# rules:
#   LF001:
#     enabled: true
#     options:
#       dedupe: false
`)
		return buf.Bytes()
	}

	buf.WriteString("\n# Rule-specific configuration\nrules:\n")
	for _, rule := range rules {
		fmt.Fprintf(&buf, "\n  # %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth, "  # "))
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		if len(rule.Options) > 0 {
			buf.WriteString("    options:\n")
			for _, key := range sortedKeys(rule.Options) {
				fmt.Fprintf(&buf, "      %s: %v\n", key, rule.Options[key])
			}
		}
	}
	return buf.Bytes()
}

func tomlTemplate(rules []RuleInfo) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `# luaufmt configuration

# File patterns to skip (glob patterns)
ignore = ["%s/**"]

# Keep a .luaufmt.bak copy next to every formatted file
[backups]
enabled = false
mode = "sidecar"

# Knit and Wally insertion helpers
[knit]
# auto, always or never
workspace = "auto"
packages_root = "%s"
packages_dir = "%s"

[watch]
format_on_write = false
debounce_ms = %d
`, DefaultPackagesDir, DefaultPackagesRoot, DefaultPackagesDir, DefaultDebounceMS)

	if len(rules) == 0 {
		buf.WriteString(`
# Rule-specific configuration
# [rules.LF001]
# enabled = true
# options = { dedupe = false }
`)
		return buf.Bytes()
	}

	for _, rule := range rules {
		fmt.Fprintf(&buf, "\n# %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "# %s\n", wrapComment(rule.Description, commentWrapWidth, "# "))
		fmt.Fprintf(&buf, "[rules.%s]\n", rule.ID)
		fmt.Fprintf(&buf, "enabled = %t\n", rule.Enabled)
		if len(rule.Options) > 0 {
			fmt.Fprintf(&buf, "[rules.%s.options]\n", rule.ID)
			for _, key := range sortedKeys(rule.Options) {
				fmt.Fprintf(&buf, "%s = %s\n", key, tomlValue(rule.Options[key]))
			}
		}
	}
	return buf.Bytes()
}

func tomlValue(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(value)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int, prefix string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+prefix)
}
