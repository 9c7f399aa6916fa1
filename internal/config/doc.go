// Package config loads copyline settings.
//
// Settings come from three layers, lowest priority first: built-in
// defaults, a TOML or YAML file chosen by extension, and COPYLINE_*
// environment variables. The merged map is decoded into a typed Config
// and validated.
//
//	cfg, err := config.Load("~/.config/copyline/config.toml")
//	if err != nil {
//	    return err
//	}
//
// Watcher (package watcher) reports changes to the file so the caller can
// Load again and re-apply the result.
package config
