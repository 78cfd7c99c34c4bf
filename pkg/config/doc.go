// Package config builds the runtime Environment outsider works with.
//
// Values are layered with koanf: the embedded defaults.toml first, then
// OUTSIDER_* environment variables and HOME. The resulting Environment is
// passed explicitly to the installer instead of being read from the process
// environment at use sites.
package config
