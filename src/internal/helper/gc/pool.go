// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	Bytes() []byte
	String() string
	Len() int
	Reset()
	ReadFrom(r io.Reader) (int64, error)
}

// Pool defines the interface for buffer pooling.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool. Buffers not obtained from a
// bytebufferpool are dropped.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the buffer pool shared by every fetch strategy.
//
// Response entities, FTP streams and files are drained into a pooled buffer
// and copied out before the buffer goes back:
//
//	buf := gc.Default.Get()
//	defer func() {
//		buf.Reset()         // Reset the buffer to prevent data leaks
//		gc.Default.Put(buf) // Return the buffer to the pool for reuse
//	}()
//
//	if _, err := buf.ReadFrom(resp.Body); err != nil {
//		return nil, fmt.Errorf("failed to read response entity: %w", err)
//	}
//
//	data := append([]byte(nil), buf.Bytes()...)
var Default Pool = &pool{p: &bytebufferpool.Pool{}}

// ReadAll drains r through a pooled buffer and returns an owned copy of
// the bytes read. The returned slice is never nil when err is nil, so an
// empty but present stream can be told apart from a missing one.
func ReadAll(r io.Reader) ([]byte, error) {
	return readAll(Default, r)
}

func readAll(p Pool, r io.Reader) ([]byte, error) {
	buf := p.Get()
	defer func() {
		buf.Reset()
		p.Put(buf)
	}()

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	return append(make([]byte, 0, buf.Len()), buf.Bytes()...), nil
}
