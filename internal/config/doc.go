// Package config loads and watches the typeset configuration file.
//
// Configuration is TOML with flat metrics keys and a theme table of hex
// colors. Load returns defaults when the file does not exist, so a missing
// config is never an error. Watch reloads the file on change and hands the
// parsed result to a callback; invalid edits are reported without replacing
// the last good configuration.
package config
