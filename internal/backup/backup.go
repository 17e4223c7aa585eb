// Package backup protects the database file: timestamped snapshots with
// retention, restore with an atomic swap, and a timer-driven auto-backup.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/trailhead-labs/habitkeep/internal/constants"
	"github.com/trailhead-labs/habitkeep/internal/logger"
	"github.com/trailhead-labs/habitkeep/internal/scheduler"
)

// ErrNoSource is returned when the primary database is missing or empty; a
// backup in that state would overwrite a previously good snapshot with
// garbage.
var ErrNoSource = errors.New("database missing or empty, refusing to back up")

// ErrNoBackup is returned when a restore is requested but no usable backup
// exists.
var ErrNoBackup = errors.New("no backup available")

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup and restore for a single database file. Backups
// live in a backups/ directory next to the database.
type Manager struct {
	dbPath    string
	backupDir string

	mu    sync.Mutex
	sched *scheduler.Scheduler
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
	}
}

// BackupDir returns the directory backups are written to.
func (m *Manager) BackupDir() string {
	return m.backupDir
}

// Backup creates a new snapshot of the database and returns its path. It
// refuses when the primary file is absent or zero bytes (ErrNoSource), so an
// empty database can never clobber a good backup.
func (m *Manager) Backup() (string, error) {
	return m.backup(false)
}

// backup creates a snapshot; skipRotation prevents a restore's safety backup
// from recursively rotating.
func (m *Manager) backup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	info, err := os.Stat(m.dbPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNoSource, m.dbPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat database: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s is zero bytes", ErrNoSource, m.dbPath)
	}

	destPath, err := m.uniqueBackupPath()
	if err != nil {
		return "", err
	}

	if err := m.snapshot(destPath); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}

	if !skipRotation {
		if err := m.rotate(); err != nil {
			// Rotation failure is not worth failing a successful backup.
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}

	logger.Info("backup created", "path", destPath, "bytes", info.Size())
	return destPath, nil
}

// uniqueBackupPath generates a timestamped filename, escalating precision and
// finally a counter when backups land within the same minute.
func (m *Manager) uniqueBackupPath() (string, error) {
	name := func(stamp string) string {
		return filepath.Join(m.backupDir,
			constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	path := name(time.Now().Format("20060102-1504"))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	stamp := time.Now().Format("20060102-150405")
	path = name(stamp)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	for counter := 1; counter <= 100; counter++ {
		path = name(fmt.Sprintf("%s-%d", stamp, counter))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// snapshot writes a consistent copy of the database to destPath. VACUUM INTO
// is the engine's checkpointed snapshot primitive and is preferred; a plain
// file copy is the fallback for engines that lack it.
func (m *Manager) snapshot(destPath string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := src.Exec("VACUUM INTO ?", destPath); err != nil {
		return copyFile(m.dbPath, destPath)
	}
	return nil
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) ||
			!strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
		timestamp, ok := parseStamp(stamp)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		backups = append(backups, Info{Path: path, Timestamp: timestamp, Size: info.Size()})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseStamp parses "20060102-1504" or "20060102-150405", each optionally
// carrying a "-N" uniqueness counter.
func parseStamp(stamp string) (time.Time, bool) {
	parts := strings.Split(stamp, "-")
	if len(parts) > 2 {
		stamp = strings.Join(parts[:2], "-")
	}
	for _, format := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.Parse(format, stamp); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LatestBackup returns the most recent non-empty backup.
func (m *Manager) LatestBackup() (Info, error) {
	backups, err := m.ListBackups()
	if err != nil {
		return Info{}, err
	}
	for _, b := range backups {
		if b.Size > 0 {
			return b, nil
		}
	}
	return Info{}, ErrNoBackup
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with the given backup. The backup must
// exist, be non-empty, and pass a validity probe; a corrupt or empty backup
// is never propagated to the live path. An existing primary is
// safety-backed-up first, then the restore lands via write-to-temp plus
// atomic rename.
func (m *Manager) Restore(backupPath string) error {
	info, err := os.Stat(backupPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNoBackup, backupPath)
	}
	if err != nil {
		return fmt.Errorf("failed to stat backup: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is zero bytes", ErrNoBackup, backupPath)
	}

	if err := verify(backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.dbPath); err == nil {
		safety, err := m.backup(true)
		if err != nil {
			return fmt.Errorf("failed to back up current database before restore: %w", err)
		}
		logger.Info("pre-restore safety backup created", "path", safety)
	}

	tempPath := fmt.Sprintf("%s.restore-%s.tmp", m.dbPath, uuid.NewString())
	if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}

	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary restore file", "path", tempPath, "error", removeErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("database restored", "from", backupPath, "bytes", info.Size())
	return nil
}

// CheckAndRestore recovers a missing database from the newest usable backup.
// It never touches an existing primary, even a suspect one: a stale backup
// must not clobber a live database. Returns true when a restore happened.
func (m *Manager) CheckAndRestore() (bool, error) {
	if _, err := os.Stat(m.dbPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat database: %w", err)
	}

	latest, err := m.LatestBackup()
	if errors.Is(err, ErrNoBackup) {
		logger.Warn("database missing and no backup available", "path", m.dbPath)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logger.Warn("database missing, restoring from backup", "backup", latest.Path)
	if err := m.Restore(latest.Path); err != nil {
		return false, err
	}
	return true, nil
}

// StartAuto runs one immediate backup and then repeats on the given
// interval. Calling it while already running is a logged no-op, so a second
// caller can't stack timers.
func (m *Manager) StartAuto(interval time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sched != nil {
		logger.Info("auto-backup already running")
		return nil
	}
	if interval <= 0 {
		interval = constants.DefaultBackupInterval
	}

	job := func() {
		if _, err := m.Backup(); err != nil {
			logger.Warn("automatic backup failed", "error", err)
		}
	}
	job()

	sched := scheduler.New(time.Local)
	if _, err := sched.ScheduleInterval(interval, job); err != nil {
		return fmt.Errorf("failed to schedule auto-backup: %w", err)
	}
	sched.Start()
	m.sched = sched

	logger.Info("auto-backup started", "interval", interval)
	return nil
}

// StopAuto cancels the auto-backup timer. Calling it while not running is a
// no-op.
func (m *Manager) StopAuto() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sched == nil {
		return
	}
	m.sched.Stop()
	m.sched = nil
	logger.Info("auto-backup stopped")
}

// verify checks that a file is an openable SQLite database.
func verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
