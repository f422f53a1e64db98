package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"atelier/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

const defaultHeartbeat = 15 * time.Second

// StreamConfig tunes the server-sent event stream.
type StreamConfig struct {
	// Heartbeat is the idle interval after which a comment line keeps proxies from closing
	// the connection.
	Heartbeat time.Duration
}

func (c StreamConfig) withDefaults() StreamConfig {
	if c.Heartbeat <= 0 {
		c.Heartbeat = defaultHeartbeat
	}
	return c
}

// GetStageView handles GET /api/v1/views/me.
func (s *Server) GetStageView(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	orders, err := s.h.GetStageView.Handle(c.Request().Context(), queries.NewGetStageViewQuery(actor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrders(orders))
}

// WatchStageView handles GET /api/v1/views/me/stream. Each "snapshot" event carries the
// full view; the event id is the snapshot sequence number.
func (s *Server) WatchStageView(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	snapshots, err := s.h.WatchStageView.Handle(ctx, queries.NewWatchStageViewQuery(actor))
	if err != nil {
		return err
	}

	s.streams.StreamOpened()
	defer s.streams.StreamClosed()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	heartbeat := time.NewTicker(s.stream.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err = writeSnapshot(res, snap); err != nil {
				return nil
			}
		case <-heartbeat.C:
			if _, err = fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeSnapshot(res *echo.Response, snap queries.StageViewSnapshot) error {
	data, err := json.Marshal(toOrders(snap.Orders))
	if err != nil {
		return err
	}
	event := "snapshot"
	if snap.Resync {
		event = "resync"
	}
	if _, err = fmt.Fprintf(res, "id: %d\nevent: %s\ndata: %s\n\n", snap.Seq, event, data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
