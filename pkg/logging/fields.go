package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Path(p string) Field {
	return String("path", p)
}

func RequestID(id string) Field {
	return String("request_id", id)
}

func StatusCode(code int) Field {
	return Int("status", code)
}

// Graph and model fields

func NodeCount(n int) Field {
	return Int("node_count", n)
}

func EdgeCount(n int) Field {
	return Int("edge_count", n)
}

func Label(l string) Field {
	return String("label", l)
}

func Confidence(c float64) Field {
	return Float64("confidence", c)
}

func Visited(n int) Field {
	return Int("visited", n)
}

func ModelSource(location string) Field {
	return String("model_source", location)
}
