// Package config provides configuration loading and defaults for nightpulse.
package config

// DefaultConfigDir is the default location for nightpulse configuration.
const DefaultConfigDir = "~/.config/nightpulse"

// DefaultDataDir is the default location for the database and chart scratch.
const DefaultDataDir = "~/.local/share/nightpulse"

// DefaultHealthExportDir is where exported health JSON files are read from.
const DefaultHealthExportDir = "~/.local/share/nightpulse/health"

// DefaultShareDir is where the manual channel writes shared reports.
const DefaultShareDir = "~/.local/share/nightpulse/share"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "nightpulse.db"

// DefaultScanDays is how many days each cycle scans: today plus six back.
const DefaultScanDays = 7

// DefaultActiveHours is the local-time window in which the cycle runs.
var DefaultActiveHours = Hours{Start: 7, End: 19}

// DefaultLog holds the default logging preferences.
var DefaultLog = Log{Level: "info", Format: "console"}

// DefaultSMTPPort is the SMTP submission port.
const DefaultSMTPPort = 587

// DefaultReminderTime is when the manual-share reminder fires.
const DefaultReminderTime = "08:00"
