// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package gitpmerr defines the module's typed error kinds. Every kind except
// SymlinkUnsupported maps to a distinct process exit code at the cmd boundary.
package gitpmerr

import "fmt"

// Kind tags one error variant.
type Kind string

const (
	KindManifestMalformed     Kind = "ManifestMalformed"
	KindUnknownConfigKey      Kind = "UnknownConfigKey"
	KindAuthFailed            Kind = "AuthFailed"
	KindRefNotFound           Kind = "RefNotFound"
	KindNetworkError          Kind = "NetworkError"
	KindSparsePathEmpty       Kind = "SparsePathEmpty"
	KindCircularDependency    Kind = "CircularDependency"
	KindPackageNameCollision  Kind = "PackageNameCollision"
	KindSymlinkUnsupported    Kind = "SymlinkUnsupported"
	KindWriteFailure          Kind = "WriteFailure"
	KindPermissionDenied      Kind = "PermissionDenied"
	KindPackageNotInstalled   Kind = "PackageNotInstalled"
)

// exitCodes maps each kind except SymlinkUnsupported to a distinct non-zero
// process exit code. 0 is reserved for success and is never assigned here.
// SymlinkUnsupported has no entry, so ExitCode reports it as 1.
var exitCodes = map[Kind]int{
	KindManifestMalformed:    10,
	KindUnknownConfigKey:     11,
	KindAuthFailed:           12,
	KindRefNotFound:          13,
	KindNetworkError:         14,
	KindSparsePathEmpty:      15,
	KindCircularDependency:   16,
	KindPackageNameCollision: 17,
	KindWriteFailure:         18,
	KindPermissionDenied:     19,
	KindPackageNotInstalled:  20,
}

// Error is a typed, wrapped error carrying a Kind plus the package/repo/ref/
// path context the user-visible failure message requires.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	for _, k := range []string{"package", "repo", "ref", "path"} {
		if v, ok := e.Context[k]; ok && v != "" {
			msg += fmt.Sprintf(" [%s=%s]", k, v)
		}
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind with optional context key-values
// (passed as alternating key, value strings).
func New(kind Kind, message string, kv ...string) *Error {
	ctx := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		ctx[kv[i]] = kv[i+1]
	}
	return &Error{Kind: kind, Message: message, Context: ctx}
}

// Wrap builds an Error of the given kind wrapping cause.
func Wrap(kind Kind, cause error, message string, kv ...string) *Error {
	e := New(kind, message, kv...)
	e.Cause = cause
	return e
}

// ExitCode returns the process exit code for err, or 1 if err is not (or
// does not wrap) a *Error — the catch-all non-zero code for untyped errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var gerr *Error
	for e := err; e != nil; {
		if ge, ok := e.(*Error); ok {
			gerr = ge
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}

	if gerr == nil {
		return 1
	}
	if code, ok := exitCodes[gerr.Kind]; ok {
		return code
	}
	return 1
}
