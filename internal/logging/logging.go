// internal/logging/logging.go

// Package logging routes the standard logger to stderr and an optional log
// file. Stdout is reserved for the MCP stream and is never written here.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tao-philip/server-mcp/internal/util"
)

// maxPayloadRunes caps the payload portion of a request log line.
const maxPayloadRunes = 2048

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool
	stderr  io.Writer = os.Stderr
)

// Init points the standard logger at stderr and, when logPath is non-empty,
// appends to that file as well. Calling Init again replaces the previous file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	writers := []io.Writer{stderr}

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

// Close flushes and releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// Quiet stops writing to stderr until the returned restore func is called.
// The log file, if any, keeps receiving output. Used while a full-screen UI
// owns the terminal.
func Quiet() (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if logFile != nil {
			log.SetOutput(io.MultiWriter(stderr, logFile))
		} else {
			log.SetOutput(stderr)
		}
	}
}

// SetDebug toggles LogDebug output.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

func debugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debug
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogDebug logs only when debug mode is on.
func LogDebug(format string, args ...any) {
	if !debugEnabled() {
		return
	}
	log.Println("[DEBUG] " + fmt.Sprintf(format, args...))
}

// LogRequest records one hop of a tool call, e.g. direction "MCP->TOOL" or
// "TOOL->API". Callers must not pass secrets in payload.
func LogRequest(direction, requestID, endpoint, tool string, payload any) {
	log.Println(buildRequestMessage(direction, requestID, endpoint, tool, payload))
}

func buildRequestMessage(direction, requestID, endpoint, tool string, payload any) string {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	parts := []string{fmt.Sprintf("[%s]", dir)}
	if id := strings.TrimSpace(requestID); id != "" {
		parts = append(parts, fmt.Sprintf("id=%s", id))
	}
	endpointValue := strings.TrimSpace(endpoint)
	if endpointValue == "" {
		endpointValue = "none"
	}
	parts = append(parts, fmt.Sprintf("endpoint=%s", endpointValue))
	if tool = strings.TrimSpace(tool); tool != "" {
		parts = append(parts, fmt.Sprintf("tool=%s", tool))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", util.Truncate(formatPayload(payload), maxPayloadRunes)))
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

type requestIDKey struct{}

// WithRequestID tags ctx with a request id picked up by downstream log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
