package rules

import "github.com/yaklabco/luaufmt/pkg/format"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *format.Registry) {
	registry.Register(NewServiceAccessorRule()) // LF001
	registry.Register(NewFontFaceRule())        // LF002
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(format.DefaultRegistry)
}
