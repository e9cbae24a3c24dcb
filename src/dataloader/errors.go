// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"errors"
	"fmt"
)

// ErrorKind classifies loader failures. The set is closed.
type ErrorKind int

const (
	// KindTransportConfig indicates that TLS trust or key material could not
	// be loaded. It is never retried on another candidate.
	KindTransportConfig ErrorKind = iota + 1
	// KindConnectivity indicates an I/O failure reaching a source (DNS,
	// refused, reset, timeout).
	KindConnectivity
	// KindHTTPStatus indicates a response status outside the accepted set.
	KindHTTPStatus
	// KindEmptyEntity indicates a response that carried no entity at all.
	KindEmptyEntity
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransportConfig:
		return "transport_config"
	case KindConnectivity:
		return "connectivity"
	case KindHTTPStatus:
		return "http_status"
	case KindEmptyEntity:
		return "empty_entity"
	default:
		return "unknown"
	}
}

var (
	// ErrTransportConfig matches every error of kind KindTransportConfig.
	ErrTransportConfig = errors.New("dataloader: transport configuration error")
	// ErrConnectivity matches every error of kind KindConnectivity.
	ErrConnectivity = errors.New("dataloader: connectivity error")
	// ErrHTTPStatus matches every error of kind KindHTTPStatus.
	ErrHTTPStatus = errors.New("dataloader: unexpected HTTP status")
	// ErrEmptyEntity matches every error of kind KindEmptyEntity.
	ErrEmptyEntity = errors.New("dataloader: response has no entity")
)

// Error is the error type returned by the loader.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// URL is the source the failure belongs to, as the caller supplied it.
	URL string
	// StatusCode is set for KindHTTPStatus.
	StatusCode int
	// Reason is the HTTP reason phrase for KindHTTPStatus.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTPStatus:
		return fmt.Sprintf("dataloader: %s: url [%s]: HTTP %d %s",
			e.Kind, e.URL, e.StatusCode, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("dataloader: %s: url [%s]: %v", e.Kind, e.URL, e.Err)
	default:
		return fmt.Sprintf("dataloader: %s: url [%s]", e.Kind, e.URL)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransportConfig:
		return e.Kind == KindTransportConfig
	case ErrConnectivity:
		return e.Kind == KindConnectivity
	case ErrHTTPStatus:
		return e.Kind == KindHTTPStatus
	case ErrEmptyEntity:
		return e.Kind == KindEmptyEntity
	}
	return false
}

func newError(kind ErrorKind, url string, err error) *Error {
	return &Error{Kind: kind, URL: url, Err: err}
}

func statusError(url string, code int, reason string) *Error {
	return &Error{Kind: KindHTTPStatus, URL: url, StatusCode: code, Reason: reason}
}

// asError returns err as an *Error. Errors of another type are wrapped as
// KindConnectivity.
func asError(url string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(KindConnectivity, url, err)
}

// KindOf returns the kind of err, or 0 if err is not a loader error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsTransportConfig reports whether err is a transport configuration error.
func IsTransportConfig(err error) bool { return KindOf(err) == KindTransportConfig }

// IsConnectivity reports whether err is a connectivity error.
func IsConnectivity(err error) bool { return KindOf(err) == KindConnectivity }

// IsHTTPStatus reports whether err is an unexpected status error.
func IsHTTPStatus(err error) bool { return KindOf(err) == KindHTTPStatus }

// IsEmptyEntity reports whether err is an empty entity error.
func IsEmptyEntity(err error) bool { return KindOf(err) == KindEmptyEntity }
