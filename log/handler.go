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

package log

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Handler consumes formatted log records. Implementations must be
// safe for concurrent use; the root logger's mutex guards only its level
// and handler fields and is released before Log is called.
type Handler interface {
	Log(r record)
}

var levelColor = map[Level]*color.Color{
	LevelCrit:  color.New(color.FgHiMagenta, color.Bold),
	LevelError: color.New(color.FgHiRed, color.Bold),
	LevelWarn:  color.New(color.FgHiYellow),
	LevelInfo:  color.New(color.FgHiGreen),
	LevelDebug: color.New(color.FgHiCyan),
	LevelTrace: color.New(color.FgHiBlack),
}

type terminalHandler struct {
	out     io.Writer
	useColor bool
}

// NewTerminalHandler returns a Handler that writes human-readable,
// colorized records when w is an actual terminal (detected with
// mattn/go-isatty) and wraps w with mattn/go-colorable so ANSI escapes
// render correctly on Windows consoles too.
func NewTerminalHandler(w *os.File) Handler {
	useColor := isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	return &terminalHandler{
		out:      colorable.NewColorable(w),
		useColor: useColor,
	}
}

func (h *terminalHandler) Log(r record) {
	ts := r.time.Format("2006-01-02T15:04:05-0700")
	line := fmt.Sprintf("%s [%s] %s %s\n", ts, r.lvl, r.msg, fmtCtx(r.ctx))
	if h.useColor {
		if c, ok := levelColor[r.lvl]; ok {
			line = c.Sprint(line)
		}
	}
	fmt.Fprint(h.out, line)
}

// fileHandler writes plain (uncolored) records to a size- and age-rotated
// file, via lumberjack.
type fileHandler struct {
	out *lumberjack.Logger
}

// NewFileHandler returns a Handler backed by a lumberjack-rotated log
// file. maxSizeMB, maxBackups and maxAgeDays mirror lumberjack's own
// knobs; zero means "use lumberjack's default".
func NewFileHandler(path string, maxSizeMB, maxBackups, maxAgeDays int) Handler {
	return &fileHandler{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		},
	}
}

func (h *fileHandler) Log(r record) {
	ts := r.time.Format("2006-01-02T15:04:05-0700")
	fmt.Fprintf(h.out, "%s [%s] %s %s\n", ts, r.lvl, r.msg, fmtCtx(r.ctx))
}

// multiHandler fans a record out to several handlers, e.g. colored
// terminal output plus a rotating file for later diagnosis.
type multiHandler struct {
	handlers []Handler
}

// NewMultiHandler combines handlers so every record reaches all of them.
func NewMultiHandler(handlers ...Handler) Handler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Log(r record) {
	for _, sub := range h.handlers {
		sub.Log(r)
	}
}
