package rpcjson

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/minbot/dashboard/internal/adapters/db/sqlstore"
	"github.com/minbot/dashboard/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuild = "112233445566778899"
	testUser  = "223344556677889900"
)

type rpcReply struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	ID     any             `json:"id"`
}

func startTestServer(t *testing.T) net.Conn {
	t.Helper()
	dir, err := os.MkdirTemp("", "minbot-rpc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	db, err := sqlstore.Open("sqlite", filepath.Join(dir, "rpc.db"))
	require.NoError(t, err)
	require.NoError(t, sqlstore.RunMigrations(context.Background(), db))
	service := application.NewDashboardService(sqlstore.NewDashboardRepository(db), nil, nil, nil, nil)

	srv, err := Start(filepath.Join(dir, "rpc.sock"), service, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := net.Dial("unix", srv.path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func call(t *testing.T, conn net.Conn, reader *bufio.Reader, method string, params any) rpcReply {
	t.Helper()
	require.NoError(t, json.NewEncoder(conn).Encode(map[string]any{"jsonrpc": "2.0", "method": method, "params": params, "id": 1}))
	line, err := reader.ReadBytes('\n')
	require.NoError(t, err)
	var reply rpcReply
	require.NoError(t, json.Unmarshal(line, &reply))
	return reply
}

func TestExperienceOverSocket(t *testing.T) {
	conn := startTestServer(t)
	reader := bufio.NewReader(conn)

	reply := call(t, conn, reader, "xp.apply", map[string]any{"guild_id": testGuild, "user_id": testUser, "delta": 260})
	require.Nil(t, reply.Error)
	var applied application.ExperienceResult
	require.NoError(t, json.Unmarshal(reply.Result, &applied))
	assert.EqualValues(t, 260, applied.Record.Experience)
	assert.Equal(t, 2, applied.Record.Level)

	reply = call(t, conn, reader, "xp.get", map[string]any{"guild_id": testGuild, "user_id": testUser})
	require.Nil(t, reply.Error)
	assert.Contains(t, string(reply.Result), `"experience":260`)
}

func TestErrorsCarryCodes(t *testing.T) {
	conn := startTestServer(t)
	reader := bufio.NewReader(conn)

	reply := call(t, conn, reader, "xp.apply", map[string]any{"guild_id": testGuild, "user_id": testUser})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeInvalidParams, reply.Error.Code)

	reply = call(t, conn, reader, "xp.get", map[string]any{"guild_id": "x", "user_id": testUser})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeValidation, reply.Error.Code)

	reply = call(t, conn, reader, "punishments.revoke", map[string]any{"id": 99})
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeNotFound, reply.Error.Code)

	reply = call(t, conn, reader, "objects.list", nil)
	require.NotNil(t, reply.Error)
	assert.Equal(t, codeNoMethod, reply.Error.Code)
}

func TestEffectiveCommandsEmptyGuild(t *testing.T) {
	conn := startTestServer(t)
	reader := bufio.NewReader(conn)

	reply := call(t, conn, reader, "commands.effective", map[string]any{"guild_id": testGuild})
	require.Nil(t, reply.Error)
	assert.JSONEq(t, `[]`, string(reply.Result))
}
