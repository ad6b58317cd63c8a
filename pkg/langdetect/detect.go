// Package langdetect decides which files luaufmt treats as Luau scripts.
// It relies on go-enry, the Go port of GitHub Linguist, for language names
// and for spotting vendored and generated code.
package langdetect

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names as reported by go-enry.
const (
	LangLua  = "Lua"
	LangLuau = "Luau"
)

// Reason explains why a file is not formatted. The zero value means the file
// is a script luaufmt should format.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonNotScript Reason = "not a Luau script"
	ReasonVendored  Reason = "vendored"
	ReasonGenerated Reason = "generated"
)

// Extensions returns the script extensions, lowercase with a leading dot.
func Extensions() []string {
	return []string{".lua", ".luau"}
}

// HasScriptExtension reports whether path ends in a script extension.
func HasScriptExtension(path string) bool {
	return slices.Contains(Extensions(), strings.ToLower(filepath.Ext(path)))
}

// Detect returns the language go-enry assigns to a file, or "" when it
// cannot tell.
func Detect(path string, content []byte) string {
	if lang, safe := enry.GetLanguageByExtension(path); safe {
		return lang
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lang
	}
	return enry.GetLanguage(filepath.Base(path), content)
}

// IsLuau reports whether lang names Lua or one of its dialects.
func IsLuau(lang string) bool {
	return lang == LangLua || lang == LangLuau
}

// Classify reports why the file at relPath should be skipped, or ReasonNone.
// content may be a prefix of the file; the generated-code markers live at
// the top.
func Classify(relPath string, content []byte) Reason {
	slashed := filepath.ToSlash(relPath)

	if !HasScriptExtension(slashed) {
		return ReasonNotScript
	}
	if lang, safe := enry.GetLanguageByExtension(slashed); safe && !IsLuau(lang) {
		return ReasonNotScript
	}
	if enry.IsVendor(slashed) {
		return ReasonVendored
	}
	if enry.IsGenerated(slashed, content) {
		return ReasonGenerated
	}
	return ReasonNone
}
