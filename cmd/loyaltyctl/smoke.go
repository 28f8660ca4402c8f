package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"casino_loyalty/internal/logger"
	"casino_loyalty/internal/service"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// wsSmokeCmd connects to a running player backend, claims the faucet and prints notifications
func wsSmokeCmd() *cobra.Command {
	var (
		baseURL    string
		userID     int64
		currencyID string
		wait       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ws-smoke",
		Short: "Claim the faucet against a running player backend and print websocket notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := requireSetting("jwt_secret", "JWT_SECRET")
			if err != nil {
				return err
			}
			service.InitJWT(secret)
			token, err := service.GenerateJWT(userID, service.RolePlayer)
			if err != nil {
				return err
			}

			base := strings.TrimRight(baseURL, "/")
			wsURL := "ws" + strings.TrimPrefix(base, "http") + "/ws?token=" + token
			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				return fmt.Errorf("dial %s: %w", wsURL, err)
			}
			defer conn.Close()

			if currencyID != "" {
				body := fmt.Sprintf(`{"currency_id":%q}`, currencyID)
				req, _ := http.NewRequestWithContext(cmd.Context(), http.MethodPost, base+"/api/v1/faucet/claim", bytes.NewBufferString(body))
				req.Header.Set("Authorization", "Bearer "+token)
				req.Header.Set("Content-Type", "application/json")
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					return fmt.Errorf("claim: %w", err)
				}
				b, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				fmt.Fprintf(cmd.OutOrStdout(), "claim: %d %s\n", resp.StatusCode, bytes.TrimSpace(b))
			}

			deadline := time.Now().Add(wait)
			for time.Now().Before(deadline) {
				_ = conn.SetReadDeadline(deadline)
				_, msg, err := conn.ReadMessage()
				if err != nil {
					logger.Debug("ws read stopped", "error", err)
					break
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ws: %s\n", msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "smoke test finished")
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://127.0.0.1:8080", "player backend base url")
	cmd.Flags().Int64Var(&userID, "user-id", 1, "player id")
	cmd.Flags().StringVar(&currencyID, "currency-id", "", "currency to claim; empty only listens")
	cmd.Flags().DurationVar(&wait, "wait", 3*time.Second, "how long to listen")
	return cmd
}
