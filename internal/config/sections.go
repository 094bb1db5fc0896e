package config

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level" yaml:"level" json:"level"`

	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file" json:"file"`
}

// ThemeConfig selects the color theme.
type ThemeConfig struct {
	// Name is a built-in theme kind: "dark", "light" or "high-contrast".
	Name string `toml:"name" yaml:"name" json:"name"`

	// File is a Lua theme script. It wins over Name when set.
	File string `toml:"file" yaml:"file" json:"file"`
}

// EditorConfig sets the metrics of the editors in pixels.
type EditorConfig struct {
	LineHeight     int `toml:"line_height" yaml:"line_height" json:"line_height"`
	CharWidth      int `toml:"char_width" yaml:"char_width" json:"char_width"`
	TabSize        int `toml:"tab_size" yaml:"tab_size" json:"tab_size"`
	ContentLeft    int `toml:"content_left" yaml:"content_left" json:"content_left"`
	ScrollbarWidth int `toml:"scrollbar_width" yaml:"scrollbar_width" json:"scrollbar_width"`
	MinimapWidth   int `toml:"minimap_width" yaml:"minimap_width" json:"minimap_width"`
}
