package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init points the standard logger at stdout plus an optional append-only
// log file. Calling it again swaps the file out.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogAnalysis records one analysis run: what kind of analysis, which
// collection mode it resolved to, and a payload of run details.
func LogAnalysis(kind, mode string, details any) {
	msg := buildAnalysisMessage(kind, mode, details)
	log.Println(msg)
}

func buildAnalysisMessage(kind, mode string, details any) string {
	kindValue := strings.TrimSpace(kind)
	if kindValue == "" {
		kindValue = "unknown"
	}
	modeValue := strings.TrimSpace(mode)
	if modeValue == "" {
		modeValue = "unknown"
	}
	parts := []string{"[ANALYZE]"}
	parts = append(parts, fmt.Sprintf("kind=%s", kindValue))
	parts = append(parts, fmt.Sprintf("mode=%s", modeValue))
	parts = append(parts, fmt.Sprintf("details=%s", formatPayload(details)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
