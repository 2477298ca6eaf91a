// 指示: miu200521358
package mlog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

var (
	logger   *slog.Logger
	once     sync.Once
	levelVar slog.LevelVar
	debug    atomic.Bool
)

// Init はログレベルを指定してロガーを初期化する。
// level は "debug", "info", "warn", "error" のいずれか。
func Init(level string) {
	once.Do(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: &levelVar,
		}))
		slog.SetDefault(logger)
	})
	SetLevel(level)
}

// SetLevel は実行中のログレベルを切り替える。
func SetLevel(level string) {
	switch level {
	case "debug":
		levelVar.Set(slog.LevelDebug)
		debug.Store(true)
	case "warn":
		levelVar.Set(slog.LevelWarn)
		debug.Store(false)
	case "error":
		levelVar.Set(slog.LevelError)
		debug.Store(false)
	default:
		levelVar.Set(slog.LevelInfo)
		debug.Store(false)
	}
}

// IsDebug はデバッグレベルで動作中かを返す。
func IsDebug() bool {
	return debug.Load()
}

// l は初期化済みロガーを返す。
func l() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// I は情報ログを出力する。
func I(format string, args ...any) {
	l().Info(fmt.Sprintf(format, args...))
}

// W は警告ログを出力する。
func W(format string, args ...any) {
	l().Warn(fmt.Sprintf(format, args...))
}

// E はエラーログを出力する。
func E(format string, args ...any) {
	l().Error(fmt.Sprintf(format, args...))
}

// D はデバッグログを出力する。
func D(format string, args ...any) {
	l().Debug(fmt.Sprintf(format, args...))
}
