package allowlist

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// rejectedLogger is the advisory diagnostic sink for patterns that failed
// to parse. It is separate from the structured log so operators can tail
// rejections on their own.
type rejectedLogger struct {
	file *os.File
	mu   sync.Mutex
}

func newRejectedLogger(path string, log *slog.Logger) *rejectedLogger {
	if path == "" {
		return nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304 -- path provided via config.
	if err != nil {
		if log == nil {
			slog.Default().Error("failed to open rejected pattern log", "error", err)
		} else {
			log.Error("failed to open rejected pattern log", "error", err)
		}
		return nil
	}
	return &rejectedLogger{file: file}
}

func (r *rejectedLogger) Log(pattern string, reason error) {
	if r == nil || r.file == nil {
		return
	}
	line := fmt.Sprintf("%s pattern=%q reason=%s\n",
		time.Now().UTC().Format(time.RFC3339),
		pattern,
		reason,
	)
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.file.WriteString(line)
}
