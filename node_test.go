package hypercube

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
	"github.com/dep2p/go-hypercube/pkg/types"
)

func TestNew_OptionErrors(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"缺少地址", nil, ErrNoAddress},
		{"空配置", []Option{WithConfig(nil)}, config.ErrNilConfig},
		{"地址字符非法", []Option{WithAddress("12")}, types.ErrInvalidAddress},
		{"地址宽度不符", []Option{WithAddress("10")}, types.ErrInvalidAddressWidth},
		{"成员表空间不符", []Option{
			WithAddress("101"),
			WithMembership(membership.NewStatic(mustSpace(t, 4))),
		}, ErrSpaceMismatch},
		{"静态表缺少自身", []Option{
			WithAddress("101"),
			WithMembership(membership.NewStatic(types.DefaultSpace())),
		}, membership.ErrUnknownPeer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func mustSpace(t *testing.T, bits uint8) types.Space {
	t.Helper()
	s, err := types.NewSpace(bits)
	require.NoError(t, err)
	return s
}

func TestNode_Lifecycle(t *testing.T) {
	n, err := New(WithAddress("010"), WithListenAddr("127.0.0.1:0"))
	require.NoError(t, err)

	assert.Equal(t, "010", n.Self().String())
	_, err = n.Handle(context.Background(), wire.Pull{Name: "News"})
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, n.Stop(context.Background()), ErrNotStarted)

	require.NoError(t, n.Start(context.Background()))
	assert.ErrorIs(t, n.Start(context.Background()), ErrAlreadyStarted)
	assert.NotEqual(t, "127.0.0.1:0", n.Addr())

	resp, err := n.Handle(context.Background(), wire.CreateTopic{Name: "News"})
	require.NoError(t, err)
	assert.Equal(t, wire.StatusResponse(types.StatusCreated), resp)

	count, err := n.TopicCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, n.Close())
	assert.ErrorIs(t, n.Start(context.Background()), ErrNodeClosed)
	require.NoError(t, n.Close())
}

func TestNode_ConfigIsCopied(t *testing.T) {
	cfg := config.DefaultConfig()
	n, err := New(WithConfig(cfg), WithAddress("000"), WithListenAddr("127.0.0.1:0"))
	require.NoError(t, err)
	defer n.Close()

	cfg.Forwarding.MaxAttempts = 9
	assert.Equal(t, 3, n.Config().Forwarding.MaxAttempts)
}

func TestNode_Registry(t *testing.T) {
	reg := prometheus.NewRegistry()
	n, err := Start(context.Background(),
		WithAddress("010"),
		WithListenAddr("127.0.0.1:0"),
		WithRegistry(reg),
	)
	require.NoError(t, err)

	_, err = n.Handle(context.Background(), wire.CreateTopic{Name: "News"})
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "hypercube_topics")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, n.Close())

	// 停止后指标被注销
	count, err = testutil.GatherAndCount(reg, "hypercube_topics")
	require.NoError(t, err)
	assert.Zero(t, count)
}
