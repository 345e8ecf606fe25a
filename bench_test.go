package hypercube

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-hypercube/internal/core/addressing"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
	"github.com/dep2p/go-hypercube/pkg/types"
)

func BenchmarkPublish(b *testing.B) {
	c := startTestCluster(b)
	cl := testClient(b, c)
	ctx := context.Background()

	_, err := cl.CreateTopic(ctx, "News")
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cl.SendMessage(ctx, "News", "Breaking news!"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPull(b *testing.B) {
	c := startTestCluster(b)
	cl := testClient(b, c)
	ctx := context.Background()

	_, err := cl.CreateTopic(ctx, "News")
	require.NoError(b, err)
	for i := 0; i < 100; i++ {
		_, err := cl.SendMessage(ctx, "News", fmt.Sprintf("m%d", i))
		require.NoError(b, err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cl.PullMessages(ctx, "News"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkForwarding 按入口到归属节点的跳数分组
func BenchmarkForwarding(b *testing.B) {
	c := startTestCluster(b)
	cl := testClient(b, c)
	ctx := context.Background()

	owner := addressing.Owner(types.DefaultSpace(), "News")
	_, err := cl.CreateTopic(ctx, "News")
	require.NoError(b, err)

	for hops := 0; hops <= int(types.DefaultSpace().Bits()); hops++ {
		var entry types.NodeAddress
		for _, a := range types.DefaultSpace().All() {
			if a.Distance(owner) == hops {
				entry = a
				break
			}
		}

		b.Run(fmt.Sprintf("hops=%d", hops), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				resp, err := cl.Do(ctx, entry, wire.Publish{Name: "News", Message: "x"})
				if err != nil {
					b.Fatal(err)
				}
				if resp.Status != types.StatusPublished {
					b.Fatalf("unexpected %s", resp)
				}
			}
		})
	}
}
