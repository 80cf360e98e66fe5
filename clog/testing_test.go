package clog

import "bytes"

// withBuffer 测试专用选项，将日志写入指定缓冲区
func withBuffer(buf *bytes.Buffer) Option {
	return func(o *options) {
		o.buffer = buf
	}
}
