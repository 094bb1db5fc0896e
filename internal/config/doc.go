// Package config loads inlineview settings.
//
// Settings start from built-in defaults; a file overrides whatever it sets.
// The file format follows the extension:
//
//	inlineview.toml   TOML
//	inlineview.yaml   YAML (.yml also accepted)
//	inlineview.json   JSON
//
// A TOML file looks like:
//
//	[log]
//	level = "debug"
//
//	[layout]
//	padding = 4
//	content_gap = 24
//
//	[theme]
//	name = "light"
//
// Watcher reloads the file when it changes on disk, and Source turns the
// reloaded settings into observables so the layout re-derives without a
// restart.
package config
