package tcp

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_ListenAndDial(t *testing.T) {
	tr := NewTransport()
	defer tr.Close()

	ctx := context.Background()
	l, err := tr.Listen(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	_, port, err := net.SplitHostPort(l.Addr())
	require.NoError(t, err)
	assert.NotEqual(t, "0", port)

	got := make(chan string, 1)
	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		// 读到 EOF 即请求结束
		data, _ := io.ReadAll(c)
		got <- string(data)
		_, _ = c.Write([]byte("pong"))
	}()

	c, err := tr.Dial(ctx, l.Addr())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Write([]byte("ping"))
	require.NoError(t, err)
	require.NoError(t, c.FinishWrite())

	resp, err := io.ReadAll(c)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(resp))
	assert.Equal(t, "ping", <-got)
	assert.False(t, c.Opened().IsZero())
}

func TestTransport_DialRefused(t *testing.T) {
	tr := NewTransport(WithDialTimeout(time.Second))
	defer tr.Close()

	// 先占一个端口再释放，保证无人监听
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = tr.Dial(context.Background(), addr)
	assert.Error(t, err)
}

func TestConn_BindContext(t *testing.T) {
	tr := NewTransport()
	defer tr.Close()

	ctx := context.Background()
	l, err := tr.Listen(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	// 服务端接受连接但从不回应
	accepted := make(chan *Conn, 1)
	go func() {
		c, err := l.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	c, err := tr.Dial(ctx, l.Addr())
	require.NoError(t, err)
	defer c.Close()
	defer func() {
		if sc := <-accepted; sc != nil {
			sc.Close()
		}
	}()

	rctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	release := c.BindContext(rctx)
	defer release()

	start := time.Now()
	_, err = c.Read(make([]byte, 1))
	require.Error(t, err)
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestTransport_Close(t *testing.T) {
	tr := NewTransport()

	l, err := tr.Listen(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := l.Accept()
		errc <- err
	}()

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.True(t, tr.IsClosed())
	assert.True(t, l.IsClosed())
	assert.ErrorIs(t, <-errc, ErrListenerClosed)

	_, err = tr.Listen(context.Background(), "127.0.0.1:0")
	assert.ErrorIs(t, err, ErrTransportClosed)
	_, err = tr.Dial(context.Background(), "127.0.0.1:1")
	assert.ErrorIs(t, err, ErrTransportClosed)
}
