package crashlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/mastermind-ai/mastermind/internal/logging"
)

// FileName is the crash log inside the data directory.
const FileName = "crash.log"

// Entry is one line of the crash log.
type Entry struct {
	Time       time.Time         `json:"time"`
	Level      string            `json:"level"`
	Module     string            `json:"module"`
	Message    string            `json:"message"`
	Stacktrace string            `json:"stacktrace,omitempty"`
	Context    map[string]string `json:"context,omitempty"`
}

// Logger appends entries as JSON lines.
// Safe for concurrent use from multiple goroutines.
type Logger struct {
	path string
	mu   sync.Mutex
}

var (
	global   *Logger
	globalMu sync.Mutex
)

// Init points the global crash logger at dataDir. Call once at startup.
func Init(dataDir string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = &Logger{path: filepath.Join(dataDir, FileName)}
}

func current() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// LogPanic records a recovered panic with a stack trace.
// Safe to call even if Init() was never called (the log output is the fallback).
func LogPanic(module string, r any, ctx map[string]string) {
	msg := fmt.Sprintf("%v", r)
	stack := make([]byte, 4096)
	n := runtime.Stack(stack, false)
	stackStr := string(stack[:n])

	logging.Errorf("[PANIC] %s: %s\n%s", module, msg, stackStr)

	if l := current(); l != nil {
		l.write(Entry{Level: "panic", Module: module, Message: msg, Stacktrace: stackStr, Context: ctx})
	}
}

// LogError records an error with optional context.
func LogError(module string, err error, ctx map[string]string) {
	if err == nil {
		return
	}
	l := current()
	if l == nil {
		logging.Errorf("[%s] %v", module, err)
		return
	}
	l.write(Entry{Level: "error", Module: module, Message: err.Error(), Context: ctx})
}

// Recover is meant to be deferred at the top of goroutines.
func Recover(module string) {
	if r := recover(); r != nil {
		LogPanic(module, r, nil)
	}
}

func (l *Logger) write(e Entry) {
	e.Time = time.Now()
	b, err := json.Marshal(e)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	f.Write(append(b, '\n'))
}
