/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package tlog carries the leveled logging this module's servers write
// through: a small standard-log wrapper with a package-level
// default logger, replaceable via SetLogger, and formatted per-level
// helpers.
package tlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level orders log severities from most to least chatty.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "[Trace] "
	case LevelDebug:
		return "[Debug] "
	case LevelInfo:
		return "[Info] "
	case LevelWarn:
		return "[Warn] "
	case LevelError:
		return "[Error] "
	default:
		return "[?] "
	}
}

// Logger is the leveled logging surface this package's helpers and the
// servers in this module log through.
type Logger interface {
	SetOutput(w io.Writer)
	SetLevel(lv Level)
	Errorf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Tracef(format string, v ...interface{})
}

type stdLogger struct {
	logger *log.Logger
	level  Level
}

func (l *stdLogger) SetOutput(w io.Writer) { l.logger.SetOutput(w) }
func (l *stdLogger) SetLevel(lv Level)     { l.level = lv }

func (l *stdLogger) logf(lv Level, format string, v ...interface{}) {
	if lv < l.level {
		return
	}
	_ = l.logger.Output(3, lv.String()+fmt.Sprintf(format, v...))
}

func (l *stdLogger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }
func (l *stdLogger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *stdLogger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *stdLogger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *stdLogger) Tracef(format string, v ...interface{}) { l.logf(LevelTrace, format, v...) }

var defaultLogger Logger = &stdLogger{
	logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
	level:  LevelInfo,
}

// SetLogger replaces the package-level default logger.
func SetLogger(l Logger) { defaultLogger = l }

// SetLevel sets the minimum level the default logger emits.
func SetLevel(lv Level) { defaultLogger.SetLevel(lv) }

// SetOutput redirects the default logger's output.
func SetOutput(w io.Writer) { defaultLogger.SetOutput(w) }

func Errorf(format string, v ...interface{}) { defaultLogger.Errorf(format, v...) }
func Warnf(format string, v ...interface{})  { defaultLogger.Warnf(format, v...) }
func Infof(format string, v ...interface{})  { defaultLogger.Infof(format, v...) }
func Debugf(format string, v ...interface{}) { defaultLogger.Debugf(format, v...) }
func Tracef(format string, v ...interface{}) { defaultLogger.Tracef(format, v...) }
