package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/livingwaters/fundraiser-backend/internal/broadcast"
	"github.com/livingwaters/fundraiser-backend/internal/store"
	"github.com/livingwaters/fundraiser-backend/pkg/config"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are enforced by the CORS layer on the REST surface;
	// the push channel carries no credentials and is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Connect upgrades to a websocket, sends the full snapshot, then streams
// hub events until the client goes away. The subscription is taken before
// the snapshot is read so no event published in between is lost.
func Connect(hub *broadcast.Hub, st *store.Store, cfg config.PushConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := hub.Subscribe()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			sub.Cancel()
			if logg != nil {
				logg.Error(r.Context(), "websocket upgrade failed", err)
			}
			return
		}

		bootstrap := broadcast.Bootstrap(st.Orders(), st.Products())
		broadcast.NewSession(conn, sub, cfg, logg).Run(r.Context(), bootstrap)
	}
}
