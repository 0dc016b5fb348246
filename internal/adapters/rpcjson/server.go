package rpcjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/inconshreveable/log15/v3"
	"github.com/minbot/dashboard/internal/application"
	"github.com/minbot/dashboard/internal/domain"
	"github.com/minbot/dashboard/internal/logging"
)

// Server answers newline-delimited JSON-RPC 2.0 requests on a unix socket.
// The socket is owner-only; there is no further authentication.
type Server struct {
	service  *application.DashboardService
	log      log15.Logger
	listener net.Listener
	path     string
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	codeParse          = -32700
	codeInvalidRequest = -32600
	codeNoMethod       = -32601
	codeInvalidParams  = -32602
	codeValidation     = 40000
	codeNotFound       = 40400
	codeUpstream       = 50200
	codeInternal       = 50000
)

func Start(path string, service *application.DashboardService, logger log15.Logger) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	s := &Server{service: service, log: logger.New("module", "rpc"), listener: ln, path: path}
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			_ = enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: codeParse, Message: "parse error"}, ID: nil})
			return
		}

		resp := s.dispatch(context.Background(), req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.JSONRPC != "2.0" || strings.TrimSpace(req.Method) == "" {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeInvalidRequest, Message: "invalid request"}, ID: req.ID}
	}

	switch req.Method {
	case "xp.get":
		var p struct {
			GuildID string `json:"guild_id"`
			UserID  string `json:"user_id"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		return s.result(req, func() (any, error) {
			return s.service.GetUserLevel(ctx, p.GuildID, p.UserID)
		})
	case "xp.apply":
		var p struct {
			GuildID string `json:"guild_id"`
			UserID  string `json:"user_id"`
			Delta   *int64 `json:"delta"`
		}
		if !decodeParams(req.Params, &p) || p.Delta == nil {
			return invalidParams(req.ID)
		}
		return s.result(req, func() (any, error) {
			return s.service.ApplyExperienceDelta(ctx, p.GuildID, p.UserID, *p.Delta)
		})
	case "levels.sync":
		var p struct {
			GuildID string   `json:"guild_id"`
			UserIDs []string `json:"user_ids"`
			Apply   bool     `json:"apply"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		return s.result(req, func() (any, error) {
			return s.service.SyncLevelRoles(ctx, p.GuildID, p.UserIDs, p.Apply)
		})
	case "punishments.list":
		var p struct {
			GuildID    string `json:"guild_id"`
			UserID     string `json:"user_id"`
			ActiveOnly bool   `json:"active_only"`
			Limit      int    `json:"limit"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		return s.result(req, func() (any, error) {
			return s.service.ListPunishments(ctx, domain.PunishmentFilter{
				GuildID:    p.GuildID,
				UserID:     p.UserID,
				ActiveOnly: p.ActiveOnly,
				Limit:      p.Limit,
			})
		})
	case "punishments.revoke":
		var p struct {
			ID        uint   `json:"id"`
			RevokedBy string `json:"revoked_by"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		return s.result(req, func() (any, error) {
			return s.service.RevokePunishment(ctx, p.ID, p.RevokedBy)
		})
	case "commands.effective":
		var p struct {
			GuildID string `json:"guild_id"`
			Name    string `json:"name"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		return s.result(req, func() (any, error) {
			if strings.TrimSpace(p.Name) != "" {
				return s.service.GetEffectiveCommand(ctx, p.GuildID, p.Name)
			}
			return s.service.ListEffectiveCommands(ctx, p.GuildID)
		})
	default:
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeNoMethod, Message: "method not found"}, ID: req.ID}
	}
}

func (s *Server) result(req request, call func() (any, error)) response {
	out, err := call()
	if err != nil {
		return s.errorResponse(req, err)
	}
	return response{JSONRPC: "2.0", Result: out, ID: req.ID}
}

func (s *Server) errorResponse(req request, err error) response {
	var invalid *domain.ValidationError
	var upstream *domain.UpstreamError
	switch {
	case errors.As(err, &invalid):
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeValidation, Message: invalid.Error(), Data: invalid.Fields}, ID: req.ID}
	case errors.Is(err, domain.ErrNotFound):
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeNotFound, Message: err.Error()}, ID: req.ID}
	case errors.As(err, &upstream):
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeUpstream, Message: upstream.Error()}, ID: req.ID}
	default:
		s.log.Error("rpc call failed", "method", req.Method, "err", err)
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeInternal, Message: fmt.Sprintf("internal error: %v", err)}, ID: req.ID}
	}
}

func decodeParams(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

func invalidParams(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: codeInvalidParams, Message: "invalid params"}, ID: id}
}
