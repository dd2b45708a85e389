package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/engine"
	"github.com/janken-games/janken/indexer"
	"github.com/janken-games/janken/ledger"
)

// Handler holds all dependencies needed to serve RPC methods.
type Handler struct {
	engine  *engine.Engine
	ledger  *ledger.Ledger
	indexer *indexer.Indexer
}

// NewHandler creates an RPC Handler.
func NewHandler(eng *engine.Engine, led *ledger.Ledger, idx *indexer.Indexer) *Handler {
	return &Handler{engine: eng, ledger: led, indexer: idx}
}

// Dispatch routes an RPC request to the correct method.
func (h *Handler) Dispatch(req Request) Response {
	switch req.Method {
	case "createGame":
		return h.createGame(req)
	case "joinGame":
		return h.joinGame(req)
	case "cancelGame":
		return h.cancelGame(req)
	case "commitMove":
		return h.commitMove(req)
	case "revealMove":
		return h.revealMove(req)
	case "timeoutJoin":
		return h.timeoutJoin(req)
	case "timeoutReveal":
		return h.timeoutReveal(req)
	case "withdrawFees":
		return h.withdrawFees(req)
	case "setJoinTimeout":
		return h.setJoinTimeout(req)
	case "setAdmin":
		return h.setAdmin(req)

	case "getGame":
		return h.getGame(req)
	case "getBalance":
		return h.getBalance(req)
	case "getFeePool":
		return h.getFeePool(req)
	case "getAdmin":
		return h.getAdmin(req)
	case "getGamesByPlayer":
		return h.getGamesByPlayer(req)

	default:
		return errResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

// engineErr maps domain errors onto JSON-RPC codes: validation and
// authorization failures are the caller's fault, everything else is
// internal.
func engineErr(id any, err error) Response {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return errResponse(id, CodeInvalidParams, err.Error())
	case errors.Is(err, core.ErrBadTurnCount),
		errors.Is(err, core.ErrStakeTooLow),
		errors.Is(err, core.ErrBadTimeout),
		errors.Is(err, core.ErrBadMove),
		errors.Is(err, core.ErrBadIdentity),
		errors.Is(err, core.ErrBadCommitment),
		errors.Is(err, core.ErrStakeMismatch):
		return errResponse(id, CodeInvalidParams, err.Error())
	default:
		return errResponse(id, CodeInternalError, err.Error())
	}
}

func (h *Handler) createGame(req Request) Response {
	var params struct {
		From          string `json:"from"`
		Stake         uint64 `json:"stake"`
		TotalTurns    uint32 `json:"total_turns"`
		RevealTimeout int64  `json:"reveal_timeout"` // seconds
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	id, err := h.engine.CreateGame(params.From, params.Stake, params.TotalTurns,
		time.Duration(params.RevealTimeout)*time.Second)
	if err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]uint64{"game_id": id})
}

func (h *Handler) joinGame(req Request) Response {
	var params struct {
		From   string `json:"from"`
		GameID uint64 `json:"game_id"`
		Stake  uint64 `json:"stake"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	if err := h.engine.JoinGame(params.From, params.GameID, params.Stake); err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]bool{"joined": true})
}

func (h *Handler) cancelGame(req Request) Response {
	var params struct {
		From   string `json:"from"`
		GameID uint64 `json:"game_id"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	if err := h.engine.CancelGame(params.From, params.GameID); err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]bool{"cancelled": true})
}

func (h *Handler) commitMove(req Request) Response {
	var params struct {
		From       string `json:"from"`
		GameID     uint64 `json:"game_id"`
		Commitment string `json:"commitment"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	if err := h.engine.CommitMove(params.From, params.GameID, params.Commitment); err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]bool{"committed": true})
}

func (h *Handler) revealMove(req Request) Response {
	var params struct {
		From   string `json:"from"`
		GameID uint64 `json:"game_id"`
		Move   string `json:"move"`
		Secret string `json:"secret"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	move := core.MoveFromString(params.Move)
	if err := h.engine.RevealMove(params.From, params.GameID, move, params.Secret); err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]bool{"revealed": true})
}

func (h *Handler) timeoutJoin(req Request) Response {
	var params struct {
		From   string `json:"from"`
		GameID uint64 `json:"game_id"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	if err := h.engine.TimeoutJoin(params.From, params.GameID); err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]bool{"cancelled": true})
}

func (h *Handler) timeoutReveal(req Request) Response {
	var params struct {
		From   string `json:"from"`
		GameID uint64 `json:"game_id"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	if err := h.engine.TimeoutReveal(params.From, params.GameID); err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]bool{"resolved": true})
}

func (h *Handler) withdrawFees(req Request) Response {
	var params struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount uint64 `json:"amount"` // 0 → withdraw everything
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	got, err := h.engine.WithdrawFees(params.From, params.To, params.Amount)
	if err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]uint64{"withdrawn": got})
}

func (h *Handler) setJoinTimeout(req Request) Response {
	var params struct {
		From    string `json:"from"`
		Seconds int64  `json:"seconds"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	if err := h.engine.SetJoinTimeout(params.From, time.Duration(params.Seconds)*time.Second); err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]bool{"updated": true})
}

func (h *Handler) setAdmin(req Request) Response {
	var params struct {
		From  string `json:"from"`
		Admin string `json:"admin"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	if err := h.engine.SetAdmin(params.From, params.Admin); err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, map[string]bool{"updated": true})
}

func (h *Handler) getGame(req Request) Response {
	var params struct {
		GameID uint64 `json:"game_id"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	g, err := h.engine.GetGame(params.GameID)
	if err != nil {
		return engineErr(req.ID, err)
	}
	return okResponse(req.ID, g)
}

func (h *Handler) getBalance(req Request) Response {
	var params struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.Address == "" {
		return errResponse(req.ID, CodeInvalidParams, "address is required")
	}
	balance, err := h.ledger.Balance(params.Address)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, map[string]any{"address": params.Address, "balance": balance})
}

func (h *Handler) getFeePool(req Request) Response {
	pool, err := h.engine.FeePool()
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, map[string]uint64{"fee_pool": pool})
}

func (h *Handler) getAdmin(req Request) Response {
	admin, err := h.engine.Admin()
	if errors.Is(err, core.ErrNotFound) {
		return okResponse(req.ID, map[string]string{"admin": ""})
	}
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, map[string]string{"admin": admin})
}

func (h *Handler) getGamesByPlayer(req Request) Response {
	var params struct {
		Player string `json:"player"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.Player == "" {
		return errResponse(req.ID, CodeInvalidParams, "player is required")
	}
	ids, err := h.indexer.GetGamesByPlayer(params.Player)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, ids)
}
