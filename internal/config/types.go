// SPDX-License-Identifier: MPL-2.0

package config

// Color scheme constants for UIConfig.ColorScheme.
const (
	ColorSchemeAuto  = "auto"
	ColorSchemeDark  = "dark"
	ColorSchemeLight = "light"
)

type (
	// Config is the root configuration structure.
	Config struct {
		Bundle BundleConfig `mapstructure:"bundle"`
		Minify MinifyConfig `mapstructure:"minify"`
		UI     UIConfig     `mapstructure:"ui"`
	}

	// BundleConfig holds default switches for the bundle command. Each one
	// can still be overridden per invocation with the corresponding flag.
	BundleConfig struct {
		// ExpandModules controls whether `mod name;` declarations are
		// replaced by the contents of their source files.
		ExpandModules bool `mapstructure:"expand_modules"`
		// RemoveTests controls whether test-annotated declarations are
		// dropped from the output.
		RemoveTests bool `mapstructure:"remove_tests"`
		// RemoveDocs controls whether documentation comments and doc
		// attributes are dropped from the output.
		RemoveDocs bool `mapstructure:"remove_docs"`
		// Minify runs the token minifier over the bundled output.
		Minify bool `mapstructure:"minify"`
	}

	// MinifyConfig tunes the token minifier.
	MinifyConfig struct {
		// Aggressive drops the spaces around operators that plain
		// minification keeps for readability.
		Aggressive bool `mapstructure:"aggressive"`
	}

	// UIConfig holds user interface settings.
	UIConfig struct {
		ColorScheme string `mapstructure:"color_scheme"`
		Verbose     bool   `mapstructure:"verbose"`
	}
)

// ValidColorScheme reports whether s names a supported color scheme.
func ValidColorScheme(s string) bool {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true
	}
	return false
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bundle: BundleConfig{
			ExpandModules: true,
			RemoveTests:   true,
			RemoveDocs:    true,
			Minify:        false,
		},
		Minify: MinifyConfig{
			Aggressive: false,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
