// Copyright (C) 2026 the Resource Catalogue Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// SPDX-License-Identifier: MIT

// Package log wraps logrus with a context-scoped logger.
package log

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const maxFieldLength = 64

var rootLogger = logrus.NewEntry(logrus.StandardLogger())

type ctxLogKey struct{}

// Formatting controls the output of the root logger.
type Formatting struct {
	DisableColor bool
	UTC          bool
}

type utcFormat struct {
	f logrus.Formatter
}

func (utc *utcFormat) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.UTC()
	return utc.f.Format(e)
}

// L returns the logger stored in ctx, or the root logger.
func L(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if l, ok := ctx.Value(ctxLogKey{}).(*logrus.Entry); ok && l != nil {
			return l
		}
	}
	return rootLogger
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxLogKey{}, logger)
}

// WithLogField adds a field to the context logger. Long values are truncated.
func WithLogField(ctx context.Context, key, value string) context.Context {
	if len(value) > maxFieldLength {
		value = value[:maxFieldLength-3] + "..."
	}
	return WithLogger(ctx, L(ctx).WithField(key, value))
}

// Component returns the root logger tagged with the component name.
func Component(name string) *logrus.Entry {
	return rootLogger.WithField("component", name)
}

// SetLevel sets the global level. Unknown levels fall back to info.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "warn", "warning":
		logrus.SetLevel(logrus.WarnLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// SetFormatting installs the prefixed text formatter on the root logger.
func SetFormatting(format Formatting) {
	var formatter logrus.Formatter = &prefixed.TextFormatter{
		DisableColors:   format.DisableColor,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		DisableSorting:  false,
		ForceFormatting: true,
		FullTimestamp:   true,
	}
	if format.UTC {
		formatter = &utcFormat{f: formatter}
	}
	logrus.SetFormatter(formatter)
}

// Since returns the elapsed milliseconds as a float for log fields.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
