package helpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedisUnreachable(t *testing.T) {
	rdb, err := ConnectRedis(context.Background(), "127.0.0.1:1", "", 0)
	require.Error(t, err)
	assert.Nil(t, rdb)
}

func TestRedisDelNoKeys(t *testing.T) {
	assert.NoError(t, RedisDel(context.Background(), nil))
}

func TestConnectESDisabled(t *testing.T) {
	es, err := ConnectES(context.Background(), nil, "", "")
	require.NoError(t, err)
	assert.Nil(t, es)
}
