package main

import (
	"casino_loyalty/internal/app"
	httpServer "casino_loyalty/internal/http"
)

func main() {
	a := app.New(nil)

	r := app.Engine()
	httpServer.RegisterAdminRoutes(r, a.Handler, a.Health, a.Config)

	a.Serve("admin", a.Config.AdminPort, r)
}
