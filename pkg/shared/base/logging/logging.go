// 指示: miu200521358
// Package logging は既定ロガーとログレベル制御を提供する。
package logging

import (
	"log"
	"os"
	"sync"
)

// Level はログ出力レベルを表す。
type Level int

const (
	// LevelDebug はデバッグレベルを表す。
	LevelDebug Level = iota
	// LevelInfo は情報レベルを表す。
	LevelInfo
	// LevelWarn は警告レベルを表す。
	LevelWarn
	// LevelError はエラーレベルを表す。
	LevelError
)

// ILogger はログ出力の契約を表す。
type ILogger interface {
	// Debug はデバッグログを出力する。
	Debug(format string, params ...any)
	// Info は情報ログを出力する。
	Info(format string, params ...any)
	// Warn は警告ログを出力する。
	Warn(format string, params ...any)
	// Error はエラーログを出力する。
	Error(format string, params ...any)
}

// StandardLogger は標準出力向けの既定ロガーを表す。
type StandardLogger struct {
	minLevel Level
	logger   *log.Logger
}

// NewStandardLogger は標準ロガーを生成する。
func NewStandardLogger(minLevel Level) *StandardLogger {
	return &StandardLogger{
		minLevel: minLevel,
		logger:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Debug はデバッグログを出力する。
func (l *StandardLogger) Debug(format string, params ...any) {
	l.output(LevelDebug, "D", format, params...)
}

// Info は情報ログを出力する。
func (l *StandardLogger) Info(format string, params ...any) {
	l.output(LevelInfo, "I", format, params...)
}

// Warn は警告ログを出力する。
func (l *StandardLogger) Warn(format string, params ...any) {
	l.output(LevelWarn, "W", format, params...)
}

// Error はエラーログを出力する。
func (l *StandardLogger) Error(format string, params ...any) {
	l.output(LevelError, "E", format, params...)
}

// output はレベル判定つきでログを出力する。
func (l *StandardLogger) output(level Level, mark string, format string, params ...any) {
	if l == nil || l.logger == nil || level < l.minLevel {
		return
	}
	l.logger.Printf("["+mark+"] "+format, params...)
}

var (
	defaultLoggerMutex sync.RWMutex
	defaultLogger      ILogger = NewStandardLogger(LevelInfo)
)

// DefaultLogger は既定ロガーを返す。
func DefaultLogger() ILogger {
	defaultLoggerMutex.RLock()
	defer defaultLoggerMutex.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。
func SetDefaultLogger(logger ILogger) {
	defaultLoggerMutex.Lock()
	defer defaultLoggerMutex.Unlock()
	defaultLogger = logger
}
