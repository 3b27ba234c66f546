package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/ec-training/internal/facade"
	"github.com/dwikikusuma/ec-training/internal/rpc"
	"github.com/dwikikusuma/ec-training/pkg/config"
	"github.com/dwikikusuma/ec-training/pkg/logger"
)

func TestDataAccessModes(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()

	t.Run("mock", func(t *testing.T) {
		da, b, closeFn, err := DataAccess(ctx, config.Config{DataMode: "mock", StoreDriver: "memory"}, log)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &facade.Local{}, da)
		require.NotNil(t, b)
		assert.NoError(t, b.Ready(ctx))

		env := da.GetProduct(ctx, 3)
		require.True(t, env.Success)
		assert.Equal(t, int64(1980), env.Data.Price)
	})

	t.Run("remote", func(t *testing.T) {
		da, b, closeFn, err := DataAccess(ctx, config.Config{DataMode: "remote", RemoteURL: "http://127.0.0.1:1/exec"}, log)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &facade.Remote{}, da)
		assert.Nil(t, b)
	})

	t.Run("grpc", func(t *testing.T) {
		da, _, closeFn, err := DataAccess(ctx, config.Config{DataMode: "grpc", GRPCTarget: "127.0.0.1:1"}, log)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &rpc.Client{}, da)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, _, _, err := DataAccess(ctx, config.Config{DataMode: "carrier-pigeon"}, log)
		assert.Error(t, err)
	})

	t.Run("unknown store driver", func(t *testing.T) {
		_, _, _, err := DataAccess(ctx, config.Config{DataMode: "mock", StoreDriver: "floppy"}, log)
		assert.Error(t, err)
	})
}
