package forwarding

import (
	"context"
	"fmt"

	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
)

// Exchange 在一条新连接上完成一次请求/响应交换
//
// 连接在返回前关闭。ctx 取消时阻塞的读写立即返回，错误以 ctx 的错误为准。
// maxResponse <= 0 表示不限制响应大小。
func Exchange(ctx context.Context, t *tcp.Transport, addr string, req wire.Request, maxResponse int64) (wire.Response, error) {
	conn, err := t.Dial(ctx, addr)
	if err != nil {
		return wire.Response{}, fmt.Errorf("%w: %w", ErrExchange, ctxErr(ctx, err))
	}
	defer conn.Close()

	release := conn.BindContext(ctx)
	defer release()

	if err := wire.WriteRequest(conn, req); err != nil {
		return wire.Response{}, fmt.Errorf("%w: write %s: %w", ErrExchange, addr, ctxErr(ctx, err))
	}
	if err := conn.FinishWrite(); err != nil {
		return wire.Response{}, fmt.Errorf("%w: close write %s: %w", ErrExchange, addr, ctxErr(ctx, err))
	}

	resp, err := wire.ReadResponse(conn, maxResponse)
	if err != nil {
		return wire.Response{}, fmt.Errorf("%w: read %s: %w", ErrExchange, addr, ctxErr(ctx, err))
	}
	return resp, nil
}

// ctxErr ctx 已结束时用它的错误替换 I/O 错误
func ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}
