package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
)

func TestModule(t *testing.T) {
	var tr *tcp.Transport
	app := fxtest.New(t,
		Module(),
		fx.Populate(&tr),
	)
	app.RequireStart()
	assert.False(t, tr.IsClosed())

	app.RequireStop()
	assert.True(t, tr.IsClosed())
}
