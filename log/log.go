// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

// Package log provides the structured, leveled, contextual logger used
// throughout the relayer. Every failure is logged with the Object's short
// name and underlying cause, never silently dropped.
package log

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Level is a logging severity.
type Level int

const (
	LevelCrit Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelCrit:
		return "CRIT"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled, contextual records. A Logger created with New
// carries a fixed prefix of key/value pairs (e.g. the short name of the
// Object a Task is working on) that is prepended to every record.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	New(ctx ...any) Logger
}

type record struct {
	time time.Time
	lvl  Level
	msg  string
	ctx  []any
}

type logger struct {
	ctx []any
	h   *handlerState
}

type handlerState struct {
	mu      sync.Mutex
	handler Handler
	level   Level
}

var root = &logger{
	h: &handlerState{handler: NewTerminalHandler(os.Stderr), level: LevelInfo},
}

// Root returns the process-wide root logger. It is a package-level
// logger writing to stderr through a terminal handler at Info level
// (SetLevel and SetHandler reconfigure it) and is never read back by the
// core — the core treats it as a write-only sink.
func Root() Logger { return root }

// SetLevel sets the minimum level emitted by the root logger.
func SetLevel(lvl Level) {
	root.h.mu.Lock()
	defer root.h.mu.Unlock()
	root.h.level = lvl
}

// SetHandler installs a new output Handler on the root logger, e.g. a
// rotating file handler when the relayer runs as a daemon.
func SetHandler(h Handler) {
	root.h.mu.Lock()
	defer root.h.mu.Unlock()
	root.h.handler = h
}

func (l *logger) New(ctx ...any) Logger {
	nctx := make([]any, 0, len(l.ctx)+len(ctx))
	nctx = append(nctx, l.ctx...)
	nctx = append(nctx, ctx...)
	return &logger{ctx: nctx, h: l.h}
}

func (l *logger) write(lvl Level, msg string, ctx []any) {
	l.h.mu.Lock()
	level := l.h.level
	handler := l.h.handler
	l.h.mu.Unlock()
	if lvl > level {
		return
	}
	all := make([]any, 0, len(l.ctx)+len(ctx))
	all = append(all, l.ctx...)
	all = append(all, ctx...)
	handler.Log(record{time: time.Now(), lvl: lvl, msg: msg, ctx: all})
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...any)  { l.write(LevelCrit, msg, ctx) }

// New creates a contextual Logger rooted at the process-wide root logger.
func New(ctx ...any) Logger { return root.New(ctx...) }

func Trace(msg string, ctx ...any) { root.write(LevelTrace, msg, ctx) }
func Debug(msg string, ctx ...any) { root.write(LevelDebug, msg, ctx) }
func Info(msg string, ctx ...any)  { root.write(LevelInfo, msg, ctx) }
func Warn(msg string, ctx ...any)  { root.write(LevelWarn, msg, ctx) }
func Error(msg string, ctx ...any) { root.write(LevelError, msg, ctx) }
func Crit(msg string, ctx ...any)  { root.write(LevelCrit, msg, ctx) }

// fmtCtx renders a flat key/value slice as "k1=v1 k2=v2 ...", tolerating
// an odd-length slice by giving the trailing key the value "MISSING".
func fmtCtx(ctx []any) string {
	out := ""
	for i := 0; i < len(ctx); i += 2 {
		k := ctx[i]
		var v any = "MISSING"
		if i+1 < len(ctx) {
			v = ctx[i+1]
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%v=%v", k, v)
	}
	return out
}
