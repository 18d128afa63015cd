package allowlist

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoadPatterns reads pattern strings from a file, one per line, and
// registers each for every scope. Lines starting with '#', '//' or ';' are
// comments. Invalid patterns are skipped and logged up to errorLimit
// occurrences; they do not abort the load.
func (a *Allowlist) LoadPatterns(path string, errorLimit int) error {
	file, err := os.Open(path) // #nosec G304 -- path is provided via config.
	if err != nil {
		return fmt.Errorf("open patterns file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			a.log.Warn("failed to close patterns file", "error", err)
		}
	}()

	_, err = a.loadPatterns(file, path, errorLimit)
	return err
}

func (a *Allowlist) loadPatterns(r io.Reader, sourceID string, errorLimit int) (LoadStats, error) {
	stats := LoadStats{}
	limiter := errorLimiter{limit: errorLimit}

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(stripBOM(scanner.Text()))
		stats.TotalLines++
		if line == "" || isCommentLine(line) {
			continue
		}
		e, err := a.compile(line, ScopeAll)
		if err != nil {
			stats.Invalid++
			limiter.log(a.log, sourceID, lineNum, line, err)
			a.rejected.Log(line, err)
			continue
		}
		a.append(e)
		stats.Patterns++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan patterns: %w", err)
	}

	limiter.summary(a.log, sourceID, stats.Invalid)
	a.log.Info("loaded allowlist patterns", "source", sourceID, "patterns", stats.Patterns, "invalid", stats.Invalid)
	return stats, nil
}

type errorLimiter struct {
	limit int
	count int
}

func (l *errorLimiter) log(logger *slog.Logger, sourceID string, lineNum int, pattern string, err error) {
	if l.limit == 0 {
		return
	}
	if l.limit > 0 && l.count >= l.limit {
		l.count++
		return
	}
	l.count++
	logger.Error("invalid allowlist pattern", "source", sourceID, "line", lineNum, "pattern", pattern, "error", err)
}

func (l *errorLimiter) summary(logger *slog.Logger, sourceID string, invalid int) {
	if l.limit <= 0 {
		return
	}
	if invalid > l.limit {
		logger.Warn("allowlist parsing errors suppressed", "source", sourceID, "errors", invalid, "logged", l.limit)
	}
}

func stripBOM(line string) string {
	return strings.TrimPrefix(line, "\ufeff")
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || strings.HasPrefix(line, ";")
}
