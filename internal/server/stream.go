package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"checkinboard/internal/live"
	"checkinboard/internal/metrics"
	"checkinboard/internal/storage"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 25 * time.Second

// handleStream serves a collection as a server-sent event stream. The client
// gets the full current document set immediately, then a complete fresh
// snapshot after every change. Consumers replace their whole local copy per
// event rather than applying diffs.
func (s *Server) handleStream(c echo.Context) error {
	collection := storage.Collection(c.Param("collection"))
	if !storage.Known(collection) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown collection")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	snapshots, unsubscribe := s.hub.Subscribe(collection)
	defer unsubscribe()
	metrics.LiveSubscribers.Inc()
	defer metrics.LiveSubscribers.Dec()

	s.log.Info("stream opened", "collection", collection)
	defer s.log.Info("stream closed", "collection", collection)

	// Seed the client before any change arrives.
	docs, err := s.store.List(ctx, collection)
	if err != nil {
		s.log.Error("failed to read initial snapshot", "collection", collection, "error", err)
		return nil
	}
	if err := writeSnapshot(res, live.Snapshot{Collection: collection, Docs: docs}); err != nil {
		return nil
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err := writeSnapshot(res, snap); err != nil {
				return nil
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": heartbeat\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

// writeSnapshot emits one SSE event carrying the full document set. Each
// document is flattened to its fields plus an "id" key, mirroring the shape
// clients keep in their local cache.
func writeSnapshot(res *echo.Response, snap live.Snapshot) error {
	docs := make([]map[string]any, len(snap.Docs))
	for i, doc := range snap.Docs {
		flat := make(map[string]any, len(doc.Data)+1)
		for k, v := range doc.Data {
			flat[k] = v
		}
		flat["id"] = doc.ID
		docs[i] = flat
	}

	payload, err := json.Marshal(map[string]any{
		"collection": snap.Collection,
		"docs":       docs,
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(res, "event: snapshot\ndata: %s\n\n", payload); err != nil {
		return err
	}
	res.Flush()
	return nil
}
