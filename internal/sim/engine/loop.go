package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodtruck.sim/internal/protocol"
)

// CommandEnvelope carries one driver command into the loop. Resp, when set,
// must be buffered; it receives the result at the tick boundary.
type CommandEnvelope struct {
	SessionID string
	Cmd       protocol.CommandMsg
	Resp      chan protocol.ResultMsg
}

type JoinRequest struct {
	Name string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

type session struct {
	name    string
	out     chan []byte
	results []protocol.ResultMsg
}

func (e *Engine) Run(ctx context.Context) error {
	interval := e.cfg.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingCmds []CommandEnvelope
	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stop:
			return nil
		case req := <-e.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-e.leave:
			pendingLeaves = append(pendingLeaves, id)
		case env := <-e.inbox:
			pendingCmds = append(pendingCmds, env)
		case <-ticker.C:
			e.step(interval, pendingJoins, pendingLeaves, pendingCmds)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingCmds = pendingCmds[:0]
		}
	}
}

func (e *Engine) Stop() { close(e.stop) }

// StepOnce advances one tick of length dt with the same ordering as Run.
// It is intended for tests and returns the results of cmds in order.
func (e *Engine) StepOnce(dt time.Duration, cmds ...protocol.CommandMsg) []protocol.ResultMsg {
	envs := make([]CommandEnvelope, len(cmds))
	for i, c := range cmds {
		envs[i] = CommandEnvelope{Cmd: c, Resp: make(chan protocol.ResultMsg, 1)}
	}
	e.step(dt, nil, nil, envs)
	out := make([]protocol.ResultMsg, len(envs))
	for i, env := range envs {
		out[i] = <-env.Resp
	}
	return out
}

func (e *Engine) step(dt time.Duration, joins []JoinRequest, leaves []string, cmds []CommandEnvelope) {
	start := time.Now()
	nowTick := e.tick.Load()

	for _, id := range leaves {
		delete(e.sessions, id)
	}
	for _, req := range joins {
		resp := e.joinSession(req)
		if req.Resp != nil {
			req.Resp <- resp
		}
	}

	// Commands apply in inbox order, before time moves.
	recorded := make([]RecordedCommand, 0, len(cmds))
	for _, env := range cmds {
		res := e.Apply(env.Cmd)
		recorded = append(recorded, RecordedCommand{SessionID: env.SessionID, Cmd: env.Cmd, OK: res.OK, Code: res.Code})
		if s := e.sessions[env.SessionID]; s != nil {
			s.results = append(s.results, res)
		}
		if env.Resp != nil {
			env.Resp <- res
		}
	}

	e.advance(dt)
	snap := e.publish()

	for _, s := range e.sessions {
		out := snap
		out.Results = s.results
		b, err := json.Marshal(out)
		s.results = nil
		if err != nil {
			continue
		}
		sendLatest(s.out, b)
	}

	if e.tickLogger != nil {
		st := e.cooking.Status()
		_ = e.tickLogger.WriteTick(TickLogEntry{
			Tick:     nowTick,
			Commands: recorded,
			Money:    e.ledger.Balance(),
			Open:     e.business.IsOpen(),
			QueueLen: e.queue.Len(),
			Cooking:  st.RecipeID,
		})
	}

	e.storeMetrics(time.Since(start))
	e.tick.Add(1)
}

// advance moves every timer by dt: cooking, then order timers, then bodies.
func (e *Engine) advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	e.cooking.Advance(dt)
	for _, c := range e.Customers() {
		c.Order.Advance(dt)
	}
	e.mover.Advance(dt)
	e.checkHeadArrival()
}

func (e *Engine) joinSession(req JoinRequest) JoinResponse {
	n := e.nextSession.Add(1)
	id := fmt.Sprintf("S%d", n)
	if req.Out != nil {
		e.sessions[id] = &session{name: req.Name, out: req.Out}
	}
	return JoinResponse{Welcome: protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       id,
		TickRateHz:      e.cfg.TickRateHz,
		Catalogs: protocol.CatalogDigests{
			Items:   e.cats.Items.DefsDigest,
			Recipes: e.cats.Recipes.Digest,
			Shop:    e.cats.Shop.Digest,
		},
	}}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
