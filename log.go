package bthost

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is what every package logs through. Child loggers carry extra
// fields, such as the package name or the HCI session id.
type Logger interface {
	Info(...interface{})
	Debug(...interface{})
	Error(...interface{})
	Warn(...interface{})

	Infof(string, ...interface{})
	Debugf(string, ...interface{})
	Errorf(string, ...interface{})
	Warnf(string, ...interface{})

	ChildLogger(tags map[string]interface{}) Logger
}

var (
	rootMu sync.Mutex
	root   Logger
)

// SetLogger replaces the root logger. Package loggers derived before the
// call keep logging through the old one.
func SetLogger(l Logger) {
	rootMu.Lock()
	defer rootMu.Unlock()
	root = l
}

func rootLogger() Logger {
	rootMu.Lock()
	defer rootMu.Unlock()
	if root == nil {
		root = newLogrusLogger(os.Stderr)
	}
	return root
}

// PkgLogger returns a child of the root logger tagged with pkg.
func PkgLogger(pkg string) Logger {
	return rootLogger().ChildLogger(map[string]interface{}{"pkg": pkg})
}

// SetLogLevel applies a logrus level name ("debug", "info", ...) to the
// root logger and everything derived from it.
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "log level %q", level)
	}
	l, ok := rootLogger().(*logrusLogger)
	if !ok {
		return errors.New("custom logger, level not set")
	}
	l.Logger.SetLevel(lvl)
	return nil
}

type logrusLogger struct {
	*logrus.Entry
}

func newLogrusLogger(out io.Writer) *logrusLogger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &logrusLogger{Entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) ChildLogger(ff map[string]interface{}) Logger {
	return &logrusLogger{l.WithFields(logrus.Fields(ff))}
}
