package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"casino_loyalty/internal/config"
	"casino_loyalty/internal/events"
	httpserver "casino_loyalty/internal/http"
	"casino_loyalty/internal/http/handlers"
	"casino_loyalty/internal/repository"
	"casino_loyalty/internal/service"
	"casino_loyalty/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestE2E_FaucetClaimNotifiesWebsocket(t *testing.T) {
	pool := openDB(t)
	fx := seedCatalog(t, pool, 30, "2.5")
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")

	hub := ws.NewHub()
	pub := events.Func(hub.HandleEvent)

	currencies := repository.NewCurrencyRepository(pool)
	balances := repository.NewBalanceRepository(pool)
	xp := repository.NewXPRepository(pool)
	audit := service.NewAuditService(repository.NewAuditRepository(pool))
	catalog := service.NewCatalogService(repository.NewCatalogRepository(pool), currencies, audit, pub)

	h := &handlers.Handler{
		Loyalty:  service.NewLoyaltyService(catalog, xp),
		Faucet:   service.NewFaucetService(catalog, xp, repository.NewFaucetRepository(pool), currencies, audit, pub),
		Catalog:  catalog,
		Balances: service.NewBalanceService(balances, audit),
		Audit:    audit,
		Now:      time.Now,
	}
	cfg := &config.Config{APIRateLimit: 100, APIRateWindow: time.Minute, ClaimRateLimit: 5, ClaimRateWindow: time.Minute}

	r := gin.New()
	httpserver.RegisterPlayerRoutes(r, h, handlers.NewHealthHandler(pool, nil, "itest"), hub, cfg)
	srv := httptest.NewServer(r)
	defer srv.Close()

	player := uniquePlayer()
	token, err := service.GenerateJWT(player, service.RolePlayer)
	if err != nil {
		t.Fatal(err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()

	readMsg := func() ws.Message {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var m ws.Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read ws: %v", err)
		}
		return m
	}
	if m := readMsg(); m.Type != ws.MsgReady {
		t.Fatalf("expected ready, got %q", m.Type)
	}

	claim := func() *http.Response {
		body := strings.NewReader(`{"currency_id":"` + fx.currency.ID + `"}`)
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/faucet/claim", body)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		return resp
	}

	resp := claim()
	var res service.ClaimResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode claim: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || res.Amount.String() != "2.5" || res.ClaimCount != 1 {
		t.Fatalf("claim: status %d result %+v", resp.StatusCode, res)
	}

	m := readMsg()
	if m.Type != events.TypeFaucetClaimed || m.Payload["currency_id"] != fx.currency.ID {
		t.Fatalf("unexpected notification: %+v", m)
	}

	resp = claim()
	var cooldown struct {
		RemainingMs int64 `json:"remaining_ms"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&cooldown)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict || cooldown.RemainingMs <= 0 || cooldown.RemainingMs > int64(30*time.Minute/time.Millisecond) {
		t.Fatalf("second claim: status %d remaining %d", resp.StatusCode, cooldown.RemainingMs)
	}
}
