// Package luau recognizes the handful of Roblox Luau statement shapes the
// formatter and the module helpers care about.
//
// Every pattern sits behind a named predicate so callers never touch a
// regular expression directly.
package luau

import (
	"regexp"
	"strings"
)

// FontFaceMarker ends the line that opens a multi-line Font.new call.
const FontFaceMarker = "FontFace = Font.new("

var (
	serviceAccessorRe = regexp.MustCompile(`local\s+(\w+)\s*=\s*game:GetService\(['"]([^'"]+)['"]\);?`)
	getServiceCallRe  = regexp.MustCompile(`local\s+\w+\s*=\s*game:GetService\(`)
	requireRe         = regexp.MustCompile(`^local\s+\w+\s*=\s*require\(`)
	knitRequireRe     = regexp.MustCompile(`local\s+Knit\s*=\s*require\(\s*([^\s;]+)\.Packages\.Knit\s*\);`)
	knitInitRe        = regexp.MustCompile(`^function\s+([\w$]+)(Controller|Service):KnitInit\(\)`)
)

// Accessor is a matched `local X = game:GetService('Y')` statement.
type Accessor struct {
	// Variable is the local name bound to the service.
	Variable string

	// Service is the service name passed to GetService.
	Service string

	// Start and End are the byte span of the match within the line.
	Start int
	End   int
}

// MatchServiceAccessor matches a service accessor declaration on a line.
// The match is rejected when more of the statement follows it, as in
// `local player = game:GetService('Players').LocalPlayer`.
func MatchServiceAccessor(line string) (Accessor, bool) {
	loc := serviceAccessorRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return Accessor{}, false
	}

	end := loc[1]
	if end < len(line) && !isStatementEnd(line[end]) {
		return Accessor{}, false
	}

	return Accessor{
		Variable: line[loc[2]:loc[3]],
		Service:  line[loc[4]:loc[5]],
		Start:    loc[0],
		End:      end,
	}, true
}

func isStatementEnd(char byte) bool {
	return char == ';' || char == '\r' || char == '\n'
}

// IsServiceAccessor reports whether the line declares a service accessor.
func IsServiceAccessor(line string) bool {
	_, ok := MatchServiceAccessor(line)
	return ok
}

// IsAttachedTo reports whether the accessor at lineIndex sits in the unbroken
// run of accessor lines that starts at canonicalIndex.
func IsAttachedTo(lines []string, lineIndex, canonicalIndex int) bool {
	for idx := lineIndex - 1; idx >= 0 && idx < len(lines); idx-- {
		if !IsServiceAccessor(lines[idx]) {
			return false
		}
		if idx == canonicalIndex {
			return true
		}
	}
	return false
}

// IsFormatted reports whether an accessor line already uses single quotes
// and carries its statement delimiter.
func IsFormatted(line string) bool {
	return !strings.Contains(line, `"`) && strings.Contains(line, ";")
}

// NormalizeAccessorText trims the line, switches double quotes to single
// quotes and ends it with ";\r".
func NormalizeAccessorText(line string) string {
	text := strings.ReplaceAll(strings.TrimSpace(line), `"`, "'")
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	return text + "\r"
}

// IsFontFaceMarker reports whether the line opens a multi-line Font.new call.
func IsFontFaceMarker(line string) bool {
	return strings.HasSuffix(strings.TrimSuffix(line, "\r"), FontFaceMarker)
}

// HasClosingParen reports whether the line closes a call.
func HasClosingParen(line string) bool {
	return strings.Contains(line, ")")
}

// IsRequire reports whether the line binds a local to a require call.
func IsRequire(line string) bool {
	return requireRe.MatchString(line)
}

// IsGetServiceCall reports whether the line starts a GetService binding,
// whatever follows the call.
func IsGetServiceCall(line string) bool {
	return getServiceCallRe.MatchString(line)
}

// IsKnitRequire reports whether the line requires Knit from a Packages folder.
func IsKnitRequire(line string) bool {
	return knitRequireRe.MatchString(line)
}

// KnitRoot returns the expression Knit is required from,
// such as "ReplicatedStorage" for ReplicatedStorage.Packages.Knit.
func KnitRoot(line string) (string, bool) {
	match := knitRequireRe.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// IsKnitInit reports whether the line opens the KnitInit method of a module
// with the given role.
func IsKnitInit(line string, role Role) bool {
	match := knitInitRe.FindStringSubmatch(line)
	return match != nil && match[2] == role.String()
}
