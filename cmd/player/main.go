package main

import (
	"context"

	"casino_loyalty/internal/app"
	"casino_loyalty/internal/events"
	httpServer "casino_loyalty/internal/http"
	"casino_loyalty/internal/logger"
	"casino_loyalty/internal/ws"
)

func main() {
	hub := ws.NewHub()
	a := app.New(hub.HandleEvent)

	// events from both backends reach connected players through redis
	if a.Redis != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			err := events.Subscribe(ctx, a.Redis, a.Config.EventsChannel, hub.HandleEvent)
			if err != nil {
				logger.Error("event subscription stopped", "channel", a.Config.EventsChannel, "error", err)
			}
		}()
	} else {
		logger.Warn("REDIS_ADDR not set, admin-side events will not reach websocket clients")
	}

	r := app.Engine()
	httpServer.RegisterPlayerRoutes(r, a.Handler, a.Health, hub, a.Config)

	a.Serve("player", a.Config.PlayerPort, r)
}
