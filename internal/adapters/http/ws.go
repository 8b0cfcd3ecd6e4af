package httpserver

import (
	"context"
	"net/http"

	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/OliveiraNt/kafka-vault/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the JSON frame sent for each tailed record.
type wsMessage struct {
	Partition int32                  `json:"partition"`
	Offset    int64                  `json:"offset"`
	Timestamp int64                  `json:"timestamp"`
	Key       *string                `json:"key,omitempty"`
	Value     string                 `json:"value"`
	Headers   []domain.MessageHeader `json:"headers,omitempty"`
}

// wsStreamTopic upgrades to WebSocket and streams live topic messages to the
// client. On client disconnect the consumption is canceled via context.
func (s *Server) wsStreamTopic(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")
	topicName := chi.URLParam(r, "topicName")

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Logger.Error("websocket upgrade failed", "cluster", clusterID, "topic", topicName, "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetCloseHandler(func(code int, text string) error {
		utils.Logger.Info("websocket closed by client", "cluster", clusterID, "topic", topicName, "code", code)
		cancel()
		return nil
	})

	records := make(chan domain.Record, 256)

	go func() {
		defer cancel()
		if err := s.topicService.StreamMessages(ctx, clusterID, topicName, records); err != nil {
			utils.Logger.Error("stream messages failed", "cluster", clusterID, "topic", topicName, "err", err)
		}
		close(records)
	}()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				utils.Logger.Info("websocket client disconnected", "cluster", clusterID, "topic", topicName, "err", err)
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-records:
			if !ok {
				return
			}

			msg := wsMessage{
				Partition: rec.Partition,
				Offset:    rec.Offset,
				Timestamp: rec.Timestamp.UnixMilli(),
				Value:     string(rec.Value),
				Headers:   rec.Headers,
			}
			if rec.Key != nil {
				key := string(rec.Key)
				msg.Key = &key
			}

			if err := conn.WriteJSON(msg); err != nil {
				utils.Logger.Info("websocket write failed, stopping stream", "cluster", clusterID, "topic", topicName, "err", err)
				return
			}
		}
	}
}
