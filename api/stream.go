package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowforge/graphrun/engine"
	apperrors "github.com/flowforge/graphrun/errors"
	"github.com/flowforge/graphrun/pipeline"
	"github.com/flowforge/graphrun/server"
	"github.com/flowforge/graphrun/sse"
	"github.com/flowforge/graphrun/validation"
)

// frame is one stream event serialized for the wire.
type frame struct {
	event engine.Event
	data  []byte
}

// StreamRun executes a stored graph in streaming mode, writing each
// execution event as an SSE message. The request body matches RunGraph.
// The run is cancelled when the client disconnects; otherwise the stream
// ends after exactly one terminal event.
func (h *Handler) StreamRun(c *gin.Context) {
	var req RunGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	g, ok := h.graphs.Get(req.GraphID)
	if !ok {
		server.RespondWithError(c, apperrors.NotFound("graph", req.GraphID))
		return
	}

	state, err := req.state()
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	w, err := sse.NewWriter(c.Writer)
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	ctx := c.Request.Context()
	events := h.engine.Stream(ctx, g, h.registry, state)

	frames := pipeline.Map(pipeline.FromChannel(events),
		func(_ context.Context, ev engine.Event) (frame, error) {
			data, err := json.Marshal(ev)
			return frame{event: ev, data: data}, err
		})
	frames = pipeline.Pace(frames, h.pace)

	err = frames.ForEach(ctx, func(ctx context.Context, f frame) error {
		switch {
		case f.event.Type == engine.EventStep:
			h.metrics.RecordStep(ctx, f.event.Node,
				time.Duration(f.event.DurationMS*float64(time.Millisecond)))
		case f.event.Terminal():
			h.metrics.RecordRun(ctx, terminalStatus(f.event.Type))
		}
		return w.Send(string(f.event.Type), f.data)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		h.log.Warn("stream ended early", map[string]interface{}{
			"graph_id": req.GraphID,
			"error":    err.Error(),
		})
	}
}

// terminalStatus maps a terminal event type to a run status label.
func terminalStatus(t engine.EventType) string {
	switch t {
	case engine.EventError:
		return "failed"
	case engine.EventInfo:
		return "bounded"
	default:
		return "finished"
	}
}
