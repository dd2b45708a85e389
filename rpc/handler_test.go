package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/crypto"
	"github.com/janken-games/janken/engine"
	"github.com/janken-games/janken/events"
	"github.com/janken-games/janken/indexer"
	"github.com/janken-games/janken/internal/testutil"
	"github.com/janken-games/janken/ledger"
	"github.com/janken-games/janken/storage"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := testutil.NewMemDB()
	led := ledger.New(db)
	for _, addr := range []string{"alice", "bob"} {
		require.NoError(t, led.Credit(addr, 1_000_000))
	}

	clk := clock.NewMock()
	clk.Set(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	em := events.NewEmitter()
	idx := indexer.New(db, em)

	eng, err := engine.New(storage.NewGameStore(db), led, clk, em, engine.Options{
		FeePercent: 5,
		Admin:      "admin",
	})
	require.NoError(t, err)
	return NewHandler(eng, led, idx)
}

func call(t *testing.T, h *Handler, method string, params any) Response {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return h.Dispatch(Request{JSONRPC: "2.0", ID: 1, Method: method, Params: raw})
}

func TestDispatchUnknownMethod(t *testing.T) {
	h := newTestHandler(t)
	resp := call(t, h, "mineBlock", map[string]any{})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestCreateJoinAndQueryGame(t *testing.T) {
	h := newTestHandler(t)

	resp := call(t, h, "createGame", map[string]any{
		"from": "alice", "stake": 1000, "total_turns": 3, "reveal_timeout": 600,
	})
	require.Nil(t, resp.Error)
	gameID := resp.Result.(map[string]uint64)["game_id"]
	assert.Equal(t, uint64(1), gameID)

	resp = call(t, h, "joinGame", map[string]any{
		"from": "bob", "game_id": gameID, "stake": 1000,
	})
	require.Nil(t, resp.Error)

	resp = call(t, h, "getGame", map[string]any{"game_id": gameID})
	require.Nil(t, resp.Error)

	resp = call(t, h, "getGamesByPlayer", map[string]any{"player": "bob"})
	require.Nil(t, resp.Error)
	assert.Equal(t, []uint64{1}, resp.Result)
}

func TestCommitRevealOverRPC(t *testing.T) {
	h := newTestHandler(t)

	resp := call(t, h, "createGame", map[string]any{
		"from": "alice", "stake": 1000, "total_turns": 1, "reveal_timeout": 600,
	})
	require.Nil(t, resp.Error)
	call(t, h, "joinGame", map[string]any{"from": "bob", "game_id": 1, "stake": 1000})

	commitA := crypto.MoveCommitment(core.MovePaper, "sa")
	commitB := crypto.MoveCommitment(core.MoveRock, "sb")
	resp = call(t, h, "commitMove", map[string]any{"from": "alice", "game_id": 1, "commitment": commitA})
	require.Nil(t, resp.Error)
	resp = call(t, h, "commitMove", map[string]any{"from": "bob", "game_id": 1, "commitment": commitB})
	require.Nil(t, resp.Error)

	resp = call(t, h, "revealMove", map[string]any{"from": "alice", "game_id": 1, "move": "paper", "secret": "sa"})
	require.Nil(t, resp.Error)
	resp = call(t, h, "revealMove", map[string]any{"from": "bob", "game_id": 1, "move": "rock", "secret": "sb"})
	require.Nil(t, resp.Error)

	// Pot 2000, 5% fee, prize 1900 to alice.
	resp = call(t, h, "getBalance", map[string]any{"address": "alice"})
	require.Nil(t, resp.Error)
	balance := resp.Result.(map[string]any)["balance"].(uint64)
	assert.Equal(t, uint64(1_000_000-1000+1900), balance)

	resp = call(t, h, "getFeePool", nil)
	require.Nil(t, resp.Error)
	assert.Equal(t, uint64(100), resp.Result.(map[string]uint64)["fee_pool"])
}

func TestValidationErrorsMapToInvalidParams(t *testing.T) {
	h := newTestHandler(t)

	resp := call(t, h, "createGame", map[string]any{
		"from": "alice", "stake": 1000, "total_turns": 2, "reveal_timeout": 600,
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)

	resp = call(t, h, "getGame", map[string]any{"game_id": 404})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)

	resp = call(t, h, "getBalance", map[string]any{})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestAdminMethods(t *testing.T) {
	h := newTestHandler(t)

	resp := call(t, h, "setJoinTimeout", map[string]any{"from": "alice", "seconds": 7200})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)

	resp = call(t, h, "setJoinTimeout", map[string]any{"from": "admin", "seconds": 7200})
	require.Nil(t, resp.Error)

	resp = call(t, h, "getAdmin", nil)
	require.Nil(t, resp.Error)
	assert.Equal(t, map[string]string{"admin": "admin"}, resp.Result)

	resp = call(t, h, "setAdmin", map[string]any{"from": "admin", "admin": "carol"})
	require.Nil(t, resp.Error)
}

func TestServerBearerAuth(t *testing.T) {
	h := newTestHandler(t)
	s := NewServer(":0", h, "sekrit")

	do := func(token string, body string) Response {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		s.serveHTTP(rec, req)
		var resp Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"getFeePool","params":{}}`

	resp := do("", body)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeUnauthorized, resp.Error.Code)

	resp = do("wrong", body)
	require.NotNil(t, resp.Error)

	resp = do("sekrit", body)
	assert.Nil(t, resp.Error)

	resp = do("sekrit", `{"jsonrpc":"1.0","id":1,"method":"getFeePool"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
}

func TestServerRejectsGet(t *testing.T) {
	s := NewServer(":0", newTestHandler(t), "")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.serveHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
