package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveOnce answers a single request on a unix socket with reply(id).
func serveOnce(t *testing.T, reply func(id json.RawMessage) string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "minbot-cli")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socket := filepath.Join(dir, "rpc.sock")

	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		line, err := bufio.NewReader(conn).ReadBytes('\n')
		if err != nil {
			return
		}
		var req struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.Unmarshal(line, &req)
		_, _ = conn.Write([]byte(reply(req.ID) + "\n"))
	}()
	return socket
}

func TestRPCCallDecodesResult(t *testing.T) {
	socket := serveOnce(t, func(id json.RawMessage) string {
		return `{"jsonrpc":"2.0","result":{"experience":120,"level":1},"id":` + string(id) + `}`
	})

	var out struct {
		Experience int64 `json:"experience"`
		Level      int   `json:"level"`
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, newRPCClient(socket).call(ctx, "xp.get", map[string]string{"guild_id": "1"}, &out))
	assert.Equal(t, int64(120), out.Experience)
	assert.Equal(t, 1, out.Level)
}

func TestRPCValidationErrorListsFields(t *testing.T) {
	socket := serveOnce(t, func(id json.RawMessage) string {
		return `{"jsonrpc":"2.0","error":{"code":40000,"message":"validation failed","data":["delta","user_id"]},"id":` + string(id) + `}`
	})

	err := newRPCClient(socket).call(context.Background(), "xp.apply", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "rpc error (40000): validation failed [delta, user_id]", err.Error())

	var callErr *rpcCallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, 40000, callErr.Code)
	assert.Equal(t, []string{"delta", "user_id"}, callErr.Fields())
}

func TestRPCErrorKeepsOtherData(t *testing.T) {
	socket := serveOnce(t, func(id json.RawMessage) string {
		return `{"jsonrpc":"2.0","error":{"code":50200,"message":"discord unavailable","data":{"status":503}},"id":` + string(id) + `}`
	})

	err := newRPCClient(socket).call(context.Background(), "levels.sync", nil, nil)
	require.Error(t, err)
	assert.Equal(t, `rpc error (50200): discord unavailable {"status":503}`, err.Error())
}

func TestRPCRejectsMismatchedID(t *testing.T) {
	socket := serveOnce(t, func(json.RawMessage) string {
		return `{"jsonrpc":"2.0","result":{},"id":999}`
	})

	err := newRPCClient(socket).call(context.Background(), "commands.effective", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}
