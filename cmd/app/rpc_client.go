package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"
)

// rpcClient speaks line-delimited JSON-RPC 2.0 to the dashboard's unix socket.
// Each call uses a fresh connection.
type rpcClient struct {
	socket string
	nextID atomic.Int64
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcCallError   `json:"error"`
	ID      int64           `json:"id"`
}

// rpcCallError is the error object returned by the server. Data carries the
// invalid field names for validation failures and is kept verbatim otherwise.
type rpcCallError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcCallError) Error() string {
	msg := fmt.Sprintf("rpc error (%d): %s", e.Code, e.Message)
	if fields := e.Fields(); len(fields) > 0 {
		return msg + " [" + strings.Join(fields, ", ") + "]"
	}
	if data := strings.TrimSpace(string(e.Data)); data != "" && data != "null" {
		return msg + " " + data
	}
	return msg
}

// Fields decodes Data as a list of field names; nil when Data has another shape.
func (e *rpcCallError) Fields() []string {
	var fields []string
	if len(e.Data) == 0 || json.Unmarshal(e.Data, &fields) != nil {
		return nil
	}
	return fields
}

func newRPCClient(socket string) *rpcClient {
	return &rpcClient{socket: socket}
}

func (c *rpcClient) call(ctx context.Context, method string, params any, out any) error {
	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "unix", c.socket)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.socket, err)
	}
	defer func() { _ = conn.Close() }()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	id := c.nextID.Add(1)
	if err := json.NewEncoder(conn).Encode(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: id}); err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	var resp rpcResponse
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if resp.ID != id {
		return fmt.Errorf("%s: response id %d does not match request %d", method, resp.ID, id)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}
