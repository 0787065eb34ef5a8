package logger

import (
	"fmt"
	"os"
	"time"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DBG"
	case LogLevelInfo:
		return "INF"
	case LogLevelWarn:
		return "WRN"
	case LogLevelError:
		return "ERR"
	case LogLevelFatal:
		return "FTL"
	}
	return "???"
}

// UnmarshalYAML lets the config file name the level as debug/info/warn/error/fatal.
func (l *LogLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "debug":
		*l = LogLevelDebug
	case "info", "":
		*l = LogLevelInfo
	case "warn":
		*l = LogLevelWarn
	case "error":
		*l = LogLevelError
	case "fatal":
		*l = LogLevelFatal
	default:
		return fmt.Errorf("unknown log level: %s", s)
	}
	return nil
}

type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	GetLogLevel() LogLevel
	SetLogLevel(level LogLevel)
}

type logger struct {
	level LogLevel
}

func New(level LogLevel) Logger {
	return &logger{level: level}
}

func (l *logger) log(level LogLevel, args ...interface{}) {
	if l.level <= level {
		prefix := time.Now().Format("15:04:05") + " " + level.String()
		fmt.Println(append([]interface{}{prefix}, args...)...)
	}
	if level == LogLevelFatal {
		os.Exit(1)
	}
}

func (l *logger) logf(level LogLevel, format string, args ...interface{}) {
	if l.level <= level {
		fmt.Printf(time.Now().Format("15:04:05")+" "+level.String()+" "+format, args...)
	}
	if level == LogLevelFatal {
		os.Exit(1)
	}
}

func (l *logger) Debug(args ...interface{}) {
	l.log(LogLevelDebug, args...)
}

func (l *logger) Info(args ...interface{}) {
	l.log(LogLevelInfo, args...)
}

func (l *logger) Warn(args ...interface{}) {
	l.log(LogLevelWarn, args...)
}

func (l *logger) Error(args ...interface{}) {
	l.log(LogLevelError, args...)
}

func (l *logger) Fatal(args ...interface{}) {
	l.log(LogLevelFatal, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.logf(LogLevelDebug, format, args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.logf(LogLevelInfo, format, args...)
}

func (l *logger) Warnf(format string, args ...interface{}) {
	l.logf(LogLevelWarn, format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.logf(LogLevelError, format, args...)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	l.logf(LogLevelFatal, format, args...)
}

func (l *logger) GetLogLevel() LogLevel {
	return l.level
}

func (l *logger) SetLogLevel(level LogLevel) {
	l.level = level
}
