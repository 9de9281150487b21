// Package logger wraps zap for structured logging.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log     *zap.Logger
	once    sync.Once
	level   = zap.NewAtomicLevelAt(zap.InfoLevel)
	logFile = "dsgen.log" // Default log file
)

// InitLogger initializes the Zap logger. Records go to the console and, as
// JSON, to the log file.
func InitLogger() {
	once.Do(func() {
		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.Lock(os.Stdout),
				level,
			),
		}

		// an unwritable log file degrades to console only
		if file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666); err == nil {
			fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
			cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(file), level))
		}

		log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	})
}

// GetLogger provides access to the initialized logger.
func GetLogger() *zap.Logger {
	if log == nil {
		InitLogger()
	}
	return log
}

// SetLogPath changes the log file. It only affects a logger that has not
// been initialized yet.
func SetLogPath(path string) {
	logFile = path
}

// SetLevel changes the minimum level of every output at runtime.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// ResetLogger discards the current logger so the next GetLogger
// reinitializes it.
func ResetLogger() {
	Sync()
	log = nil
	once = sync.Once{}
}

// Sync ensures buffered logs are written before the application exits.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
