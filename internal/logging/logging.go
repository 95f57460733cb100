// Package logging writes one JSON object per line. Every component (HTTP
// middleware, migrations, workers, tracing bootstrap) logs through it so the
// output shape stays the same everywhere: ts, level, component, msg plus
// free-form fields.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
	loc           = time.UTC
)

// Configure sets the destination writer and the timezone used for ts.
// A nil writer or location leaves the current value untouched.
func Configure(w io.Writer, l *time.Location) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		out = w
	}
	if l != nil {
		loc = l
	}
}

// Location returns the timezone used for log timestamps.
func Location() *time.Location {
	mu.Lock()
	defer mu.Unlock()
	return loc
}

// Log writes the entry as-is, adding ts and a level derived from status
// when they are missing.
func Log(data map[string]any) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := data["ts"]; !ok {
		data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	}
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		b, _ = json.Marshal(map[string]any{
			"ts":    data["ts"],
			"level": "error",
			"msg":   "log_marshal_failed",
			"error": err.Error(),
		})
	}
	b = append(b, '\n')
	_, _ = out.Write(b)
}

func Info(component, msg string, fields map[string]any) {
	write("info", component, msg, nil, fields)
}

func Warn(component, msg string, err error, fields map[string]any) {
	write("warn", component, msg, err, fields)
}

func Error(component, msg string, err error, fields map[string]any) {
	write("error", component, msg, err, fields)
}

func write(level, component, msg string, err error, fields map[string]any) {
	entry := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["level"] = level
	entry["component"] = component
	entry["msg"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}
	Log(entry)
}
