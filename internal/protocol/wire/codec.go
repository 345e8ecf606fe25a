package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// countingReader 记录读取的字节数
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// decode 从 r 读取一个 JSON 文档，limit <= 0 表示不限
//
// 只消费一个值，不要求对端半关闭。
func decode(r io.Reader, limit int64, v any) error {
	if limit > 0 {
		cr := &countingReader{r: io.LimitReader(r, limit+1)}
		dec := json.NewDecoder(cr)
		err := dec.Decode(v)
		if (err == nil && dec.InputOffset() > limit) || (err != nil && cr.n > limit) {
			return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
		}
		return err
	}
	return json.NewDecoder(r).Decode(v)
}

// ReadRequest 读取一个请求
//
// 超限或无法解析时返回包装 ErrMalformed 的错误；未知命令返回 ErrUnknownCommand。
func ReadRequest(r io.Reader, limit int64) (Request, error) {
	var req Request
	err := decode(r, limit, &req)
	switch {
	case err == nil:
		return req, nil
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrMalformed):
		return Request{}, err
	default:
		return Request{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}

// WriteRequest 写出一个请求
func WriteRequest(w io.Writer, req Request) error {
	return json.NewEncoder(w).Encode(req)
}

// ReadResponse 读取一个响应
func ReadResponse(r io.Reader, limit int64) (Response, error) {
	var resp Response
	if err := decode(r, limit, &resp); err != nil {
		if errors.Is(err, ErrBadResponse) || errors.Is(err, ErrTooLarge) {
			return Response{}, err
		}
		return Response{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return resp, nil
}

// WriteResponse 写出一个响应
func WriteResponse(w io.Writer, resp Response) error {
	return json.NewEncoder(w).Encode(resp)
}
