// Package config loads and validates the commflag configuration file.
//
// Configuration lives in a TOML file (default
// ~/.config/commflag/config.toml) and covers the recording storage
// location, the detection pipeline binaries, the MythTV backend
// connection, preset resolution, logging, and optional push
// notifications. Loading always starts from Default() so a missing or
// partial file yields a fully populated Config.
package config
