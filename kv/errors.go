// Copyright 2021 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package kv defines the raw, untyped boundary between the typed façade
// (package mdbxkv) and an embedded, memory-mapped B+tree engine. Only
// (ptr, len) byte slices and status codes cross this boundary; the engine
// itself is always an external collaborator (github.com/erigontech/mdbx-go
// in production, an in-process ordered store in kv/memkv for tests).
package kv

import "errors"

// Kind classifies the raw condition an engine call failed with, so that
// mdbxkv can decide whether to convert it (not-found -> nil, nil) or
// propagate it as a typed error.
type Kind int8

const (
	KindOther Kind = iota
	KindIO
	KindNotFound
	KindKeyExist
	KindMapFull
	KindMapResized
	KindReadersFull
	KindPanic
	KindBadTxn
	KindInvalid
	KindIncompatible
	KindCorrupted
	KindPageNotFound
	KindVersionMismatch
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindNotFound:
		return "not-found"
	case KindKeyExist:
		return "key-exists"
	case KindMapFull:
		return "map-full"
	case KindMapResized:
		return "map-resized"
	case KindReadersFull:
		return "readers-full"
	case KindPanic:
		return "panic"
	case KindBadTxn:
		return "bad-txn"
	case KindInvalid:
		return "invalid"
	case KindIncompatible:
		return "incompatible"
	case KindCorrupted:
		return "corrupted"
	case KindPageNotFound:
		return "page-not-found"
	case KindVersionMismatch:
		return "version-mismatch"
	case KindClosed:
		return "closed"
	default:
		return "other"
	}
}

// EngineError is the error type every RawEnv/RawTxn/RawCursor implementation
// must return for non-nil failures; Kind lets callers branch without
// depending on engine-specific sentinel values.
type EngineError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.String()
}

func (e *EngineError) Unwrap() error { return e.Err }

func NewEngineError(op string, kind Kind, cause error) *EngineError {
	return &EngineError{Op: op, Kind: kind, Err: cause}
}

// ErrNotSupported is returned by RawEnv/RawTxn implementations for
// operations the backing engine cannot perform (e.g. put_reserved on a
// dupsort table).
var ErrNotSupported = errors.New("kv: operation not supported by this engine")
