package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process logger. Tests may swap its output.
var Log = logrus.New()

func init() {
	Log.SetFormatter(&LineFormatter{})
}

// LineFormatter renders `[time] [level] [MODULE] action=.. request_id=.. msg=..`
// followed by any extra fields in key order.
type LineFormatter struct{}

func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	module, _ := entry.Data["module"].(string)
	action, _ := entry.Data["action"].(string)
	reqID, _ := entry.Data["request_id"].(string)

	fmt.Fprintf(&b, "[%s] [%s] [%s] action=%s request_id=%s msg=%s",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		strings.ToUpper(entry.Level.String()),
		strings.ToUpper(module),
		action,
		reqID,
		entry.Message,
	)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		switch k {
		case "module", "action", "request_id":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// SetupLogger sets the level and, when file is non-empty, tees output into a
// size-rotated log file.
func SetupLogger(level, file string) {
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
		Log.SetLevel(lvl)
	}
	if strings.TrimSpace(file) == "" {
		Log.SetOutput(os.Stdout)
		return
	}
	Log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}))
}

func entry(requestID, module, action string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"module":     module,
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	})
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	entry(requestID, module, action).Info(message)
}

// LogWarn records a failure that did not abort the operation.
func LogWarn(requestID, module, action string, err error) {
	entry(requestID, module, action).WithError(err).Warn("best-effort step failed")
}

// LogError records a failure returned to the caller.
func LogError(requestID, module, action string, err error) {
	entry(requestID, module, action).WithError(err).Error("operation failed")
}
