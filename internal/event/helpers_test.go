package event

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quorix/quorix/internal/logging"
)

func newTestLogger(dir string) (*logging.Logger, error) {
	return logging.NewLogger(dir, logging.LevelDebug)
}

func readLog(t *testing.T, dir string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, logging.FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return data
}
