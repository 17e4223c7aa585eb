package constants

import "time"

const (
	AppName           = "habitkeep"
	DefaultConfigPath = "~/.config/habitkeep/habitkeep.db"
	Version           = "v0.3.0"

	// DateFormat is the standard calendar-day format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups            = 14
	BackupDirName         = "backups"
	BackupFilePrefix      = "habitkeep-"
	BackupFileSuffix      = ".db"
	DefaultBackupInterval = 24 * time.Hour

	// RecycleBinRetentionDays is how long a deleted habit stays recoverable.
	// The sweep compares against the storage engine's clock, inclusive at the boundary.
	RecycleBinRetentionDays = 30
)
