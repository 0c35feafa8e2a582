// Copyright 2025 Autoeth Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serrors provides errors with attached key/value context. Errors
// created by this package support errors.Is/errors.As unwrapping and render
// their context both in Error() output and in structured zap logs.
package serrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxPair struct {
	Key   string
	Value interface{}
}

type basicError struct {
	msg   string
	cause error
	ctx   []ctxPair
}

func (e *basicError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	if len(e.ctx) > 0 {
		sb.WriteString(" {")
		for i, p := range e.ctx {
			if i != 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s=%v", p.Key, p.Value)
		}
		sb.WriteString("}")
	}
	if e.cause != nil {
		fmt.Fprintf(&sb, ": %s", e.cause)
	}
	return sb.String()
}

func (e *basicError) Unwrap() error {
	return e.cause
}

// MarshalLogObject implements zapcore.ObjectMarshaler for nicer log output.
func (e *basicError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.msg)
	if e.cause != nil {
		if m, ok := e.cause.(zapcore.ObjectMarshaler); ok {
			if err := enc.AddObject("cause", m); err != nil {
				return err
			}
		} else {
			enc.AddString("cause", e.cause.Error())
		}
	}
	for _, p := range e.ctx {
		zap.Any(p.Key, p.Value).AddTo(enc)
	}
	return nil
}

func mkCtx(errCtx ...interface{}) []ctxPair {
	np := len(errCtx) / 2
	ctx := make([]ctxPair, 0, np)
	for i := 0; i < np; i++ {
		ctx = append(ctx, ctxPair{Key: fmt.Sprint(errCtx[2*i]), Value: errCtx[2*i+1]})
	}
	sort.Slice(ctx, func(a, b int) bool { return ctx[a].Key < ctx[b].Key })
	return ctx
}

// New creates a new error with the given message and context, e.g.
//
//	serrors.New("invalid port", "port", port)
func New(msg string, errCtx ...interface{}) error {
	return &basicError{msg: msg, ctx: mkCtx(errCtx...)}
}

// Wrap wraps the cause with the message and context. The returned error
// supports errors.Is for both itself and the cause chain.
func Wrap(msg string, cause error, errCtx ...interface{}) error {
	return &basicError{msg: msg, cause: cause, ctx: mkCtx(errCtx...)}
}

// Join wraps cause with err such that errors.Is matches both. A nil err and
// nil cause yield nil.
func Join(err, cause error, errCtx ...interface{}) error {
	if err == nil && cause == nil {
		return nil
	}
	return &joinedError{err: err, cause: cause, ctx: mkCtx(errCtx...)}
}

// WithCtx attaches additional context to an existing error. The returned
// error still matches err with errors.Is.
func WithCtx(err error, errCtx ...interface{}) error {
	if err == nil {
		return nil
	}
	return &basicError{msg: "error", cause: err, ctx: mkCtx(errCtx...)}
}

type joinedError struct {
	err   error
	cause error
	ctx   []ctxPair
}

func (e *joinedError) Error() string {
	b := &basicError{ctx: e.ctx, cause: e.cause}
	if e.err != nil {
		b.msg = e.err.Error()
	}
	return b.Error()
}

func (e *joinedError) Unwrap() []error {
	switch {
	case e.err == nil:
		return []error{e.cause}
	case e.cause == nil:
		return []error{e.err}
	default:
		return []error{e.err, e.cause}
	}
}

// IsTimeout returns whether err is or is caused by a timeout error.
func IsTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// List is a slice of errors.
type List []error

// Error implements the error interface.
func (e List) Error() string {
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return fmt.Sprintf("[ %s ]", strings.Join(s, "; "))
}

// ToError returns the list as an error, or nil if the list is empty.
func (e List) ToError() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	default:
		return e
	}
}
