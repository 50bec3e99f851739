// Package configs manages user settings and the workspace configuration file
// for lockd.
//
// Configuration lives in two places:
//
//   - User settings: ~/.config/lockd/config.toml (username, text mode,
//     ignore patterns, audit toggle)
//   - Workspace config: <folder>/.lockdfg, a free-form file owned by the
//     front end. lockd only creates it with an empty default and reads or
//     replaces its contents.
//
// # Paths
//
// InitUserSettings resolves the per-user directories once at startup and
// stores them in UserLockdSettings:
//   - ConfigPath: directory holding config.toml
//   - DataPath: directory holding the audit log
//   - Username: the OS user, used when no username is configured
//
// XDG_CONFIG_HOME and XDG_DATA_HOME are honoured.
//
// # Settings
//
// LoadSettings returns defaults when the file does not exist, so a fresh
// install works without running `lockd config init`.
package configs
