package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupOldLogsKeepsWindow(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"app-2025-03-01.log", "app-2025-03-08.log", "app-2025-03-14.log", "other.log", "app-garbage.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	CleanupOldLogs(dir, 7, time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{"app-2025-03-08.log", "app-2025-03-14.log", "other.log", "app-garbage.log"}, names)
}

func TestSetupWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	cleanup, err := Setup(dir, 3)
	require.NoError(t, err)
	log.Printf("hello from test")
	cleanup()

	data, err := os.ReadFile(filepath.Join(dir, "app-"+time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello from test"))
}

func TestDailyFileRotatesOnDateChange(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	daily := NewDailyFile(dir, 2)
	daily.now = func() time.Time { return now }
	defer daily.Close()

	_, err := daily.Write([]byte("before midnight\n"))
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = daily.Write([]byte("after midnight\n"))
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "app-2025-03-14.log"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "app-2025-03-15.log"))
	require.NoError(t, err)
	assert.Equal(t, "before midnight\n", string(first))
	assert.Equal(t, "after midnight\n", string(second))

	now = now.AddDate(0, 0, 2)
	_, err = daily.Write([]byte("later\n"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "app-2025-03-14.log"))
	assert.True(t, os.IsNotExist(err))
}
