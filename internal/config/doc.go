// Package config loads the editor's configuration.
//
// Configuration comes from two files:
//
//	┌───────────────────────────────────┐
//	│  <project>/slate.json             │  ← build and formatter settings
//	├───────────────────────────────────┤
//	│  ~/.config/slate/settings.toml    │  ← user preferences
//	└───────────────────────────────────┘
//
// Loading never leaves the caller without a configuration: missing files
// yield the defaults, malformed files yield the defaults plus a
// *ParseError, and individual out-of-range values fall back to their
// defaults and are reported with errors matching ErrInvalidConfig.
//
// # Basic Usage
//
//	settings, err := config.LoadSettings(path)
//	if err != nil {
//	    log.Warn("settings", "error", err)
//	}
//
//	project, err := config.LoadProject(dir)
//	if project.Formatter.FormatsLanguage("C") { ... }
//
// # Live Reload
//
// Watcher reports debounced changes to individual files:
//
//	w, _ := config.NewWatcher()
//	w.Watch(project.Path)
//	for ev := range w.Events() {
//	    // reload
//	}
package config
