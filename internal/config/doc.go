// Package config manages user-level settings stored at ~/.trybuild/config.yaml.
// Settings can be overridden with TRYBUILD_-prefixed environment variables and
// control which manifest file is read and which dependency name is treated as
// the tool itself.
package config
