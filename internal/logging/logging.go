// Package logging points the standard logger at stdout plus a daily file
// app-YYYY-MM-DD.log, pruning files past the retention window.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	dateLayout       = "2006-01-02"
	maxRetentionDays = 30
)

// DailyFile appends to <dir>/app-<date>.log and switches files the first
// time it is written to on a new day.
type DailyFile struct {
	dir       string
	retention int
	now       func() time.Time

	mu   sync.Mutex
	date string
	file *os.File
}

func NewDailyFile(dir string, retentionDays int) *DailyFile {
	if dir == "" {
		dir = "storage/logs"
	}
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &DailyFile{dir: dir, retention: min(retentionDays, maxRetentionDays), now: time.Now}
}

func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.rotateLocked(); err != nil {
		return 0, err
	}
	return d.file.Write(p)
}

func (d *DailyFile) rotateLocked() error {
	now := d.now()
	date := now.Format(dateLayout)
	if d.file != nil && date == d.date {
		return nil
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return err
	}
	next, err := os.OpenFile(filepath.Join(d.dir, fileName(date)), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if d.file != nil {
		_ = d.file.Close()
	}
	d.file, d.date = next, date
	CleanupOldLogs(d.dir, d.retention, now)
	return nil
}

func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// Setup sends the standard logger to stdout and today's file. The returned
// func restores stdout-only logging and closes the file.
func Setup(logDir string, retentionDays int) (func(), error) {
	daily := NewDailyFile(logDir, retentionDays)
	daily.mu.Lock()
	err := daily.rotateLocked()
	daily.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, daily))
	return func() {
		log.SetOutput(os.Stdout)
		_ = daily.Close()
	}, nil
}

func fileName(date string) string {
	return "app-" + date + ".log"
}

// CleanupOldLogs removes app-*.log files dated before the window ending at now.
func CleanupOldLogs(logDir string, retentionDays int, now time.Time) {
	matches, err := filepath.Glob(filepath.Join(logDir, "app-*.log"))
	if err != nil {
		return
	}
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1-retentionDays)
	for _, match := range matches {
		var stamp string
		if _, err := fmt.Sscanf(filepath.Base(match), "app-%10s.log", &stamp); err != nil {
			continue
		}
		logDate, err := time.Parse(dateLayout, stamp)
		if err != nil || !logDate.Before(cutoff) {
			continue
		}
		if info, err := os.Lstat(match); err == nil && info.Mode().IsRegular() {
			_ = os.Remove(match)
		}
	}
}
