package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"feedbridge/internal/engine/mapping"
	integrationsvc "feedbridge/internal/gateway/service/integration"
	previewsvc "feedbridge/internal/gateway/service/preview"
)

// PreviewHandler serves the live preview channel. A client connects for one
// integration, then navigates records and edits the working spec; every
// message gets a freshly rendered product back.
type PreviewHandler struct {
	svc *integrationsvc.Service
}

func NewPreviewHandler(svc *integrationsvc.Service) *PreviewHandler {
	return &PreviewHandler{svc: svc}
}

const (
	previewWSWriteWait = 10 * time.Second
	previewWSPongWait  = 60 * time.Second
	previewWSPingEvery = (previewWSPongWait * 9) / 10
)

var previewWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type previewWSInbound struct {
	Type  string          `json:"type"`
	Index int             `json:"index,omitempty"`
	Path  string          `json:"path,omitempty"`
	Spec  json.RawMessage `json:"spec,omitempty"`
}

type previewWSOutbound struct {
	Type    string             `json:"type"`
	Preview *previewsvc.Result `json:"preview,omitempty"`
	Spec    *mapping.Spec      `json:"spec,omitempty"`
	Code    string             `json:"code,omitempty"`
	Message string             `json:"message,omitempty"`
}

func (h *PreviewHandler) HandlePreviewWS(w http.ResponseWriter, r *http.Request) {
	integrationID := strings.TrimSpace(r.URL.Query().Get("integration_id"))
	if integrationID == "" {
		http.Error(w, "integration_id is required", http.StatusBadRequest)
		return
	}
	rec, ok := h.svc.Get(integrationID)
	if !ok {
		http.Error(w, "integration not found", http.StatusNotFound)
		return
	}

	conn, err := previewWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(previewWSPongWait)); err != nil {
		log.Printf("preview ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(previewWSPongWait))
	})

	writeCh := make(chan previewWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(previewWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(previewWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(previewWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Session state: the extraction, the working spec and the cursor.
	pathExpr := rec.PathExpr
	inspection, extracted, err := h.svc.Inspect(ctx, rec.Source, pathExpr)
	if err != nil {
		pushPreviewWS(writeCh, previewWSOutbound{
			Type:    "error",
			Code:    "path_invalid",
			Message: err.Error(),
		})
		cancel()
		<-writerDone
		return
	}
	spec := mapping.Validate(mapping.FromPersisted(rec.Mapping), inspection.Options)
	index := 0

	render := func() {
		result := previewsvc.Render(extracted, spec, index)
		index = result.Index
		pushPreviewWS(writeCh, previewWSOutbound{Type: "preview", Preview: &result, Spec: &spec})
	}
	render()

	for {
		var in previewWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushPreviewWS(writeCh, previewWSOutbound{Type: "pong"})
		case "select":
			index = in.Index
			render()
		case "spec":
			var next mapping.Spec
			if err := json.Unmarshal(in.Spec, &next); err != nil {
				pushPreviewWS(writeCh, previewWSOutbound{
					Type:    "error",
					Code:    "invalid_spec",
					Message: err.Error(),
				})
				continue
			}
			spec = mapping.Validate(next, inspection.Options)
			render()
		case "path":
			nextInspection, nextExtracted, err := h.svc.Inspect(ctx, rec.Source, in.Path)
			if err != nil {
				pushPreviewWS(writeCh, previewWSOutbound{
					Type:    "error",
					Code:    "path_invalid",
					Message: err.Error(),
				})
				continue
			}
			pathExpr = in.Path
			inspection, extracted = nextInspection, nextExtracted
			spec = mapping.Validate(spec, inspection.Options)
			index = 0
			render()
		case "refetch":
			if _, err := h.svc.Refetch(ctx, rec.Source); err != nil {
				pushPreviewWS(writeCh, previewWSOutbound{
					Type:    "error",
					Code:    "fetch_failed",
					Message: err.Error(),
				})
				continue
			}
			nextInspection, nextExtracted, err := h.svc.Inspect(ctx, rec.Source, pathExpr)
			if err != nil {
				pushPreviewWS(writeCh, previewWSOutbound{
					Type:    "error",
					Code:    "path_invalid",
					Message: err.Error(),
				})
				continue
			}
			inspection, extracted = nextInspection, nextExtracted
			spec = mapping.Validate(spec, inspection.Options)
			render()
		default:
			pushPreviewWS(writeCh, previewWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unknown message type",
			})
		}
	}
}

func pushPreviewWS(ch chan<- previewWSOutbound, out previewWSOutbound) {
	select {
	case ch <- out:
	default:
		log.Printf("preview ws outbound buffer full; dropping %s", out.Type)
	}
}
