// 指示: miu200521358
// Package io_common は入出力共通のエラー種別を提供する。
package io_common

import (
	"errors"
	"fmt"
)

var (
	// ErrIoExtInvalid は拡張子不正エラー種別を表す。
	ErrIoExtInvalid = errors.New("io_ext_invalid")
	// ErrIoFileNotFound はファイル未検出エラー種別を表す。
	ErrIoFileNotFound = errors.New("io_file_not_found")
	// ErrIoParseFailed は解析失敗エラー種別を表す。
	ErrIoParseFailed = errors.New("io_parse_failed")
	// ErrIoFormatNotSupported は形式未対応エラー種別を表す。
	ErrIoFormatNotSupported = errors.New("io_format_not_supported")
)

// IoError は入出力エラーを表す。
type IoError struct {
	kind    error
	message string
	cause   error
}

// Error はエラーメッセージを返す。
func (e *IoError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap は原因エラーを返す。
func (e *IoError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// newIoError は種別付きの入出力エラーを生成する。
func newIoError(kind error, cause error, format string, params ...any) error {
	return &IoError{
		kind:    kind,
		message: fmt.Sprintf(format, params...),
		cause:   cause,
	}
}

// NewIoExtInvalid は拡張子不正エラーを生成する。
func NewIoExtInvalid(path string, cause error) error {
	return newIoError(ErrIoExtInvalid, cause, "対応していない拡張子です: %s", path)
}

// NewIoFileNotFound はファイル未検出エラーを生成する。
func NewIoFileNotFound(path string, cause error) error {
	return newIoError(ErrIoFileNotFound, cause, "ファイルが見つかりません: %s", path)
}

// NewIoParseFailed は解析失敗エラーを生成する。
func NewIoParseFailed(format string, cause error, params ...any) error {
	return newIoError(ErrIoParseFailed, cause, format, params...)
}

// NewIoFormatNotSupported は形式未対応エラーを生成する。
func NewIoFormatNotSupported(format string, cause error, params ...any) error {
	return newIoError(ErrIoFormatNotSupported, cause, format, params...)
}
