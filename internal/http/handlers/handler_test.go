package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{"int64 claim", int64(42), 42, true},
		{"float64 claim", float64(7), 7, true},
		{"wrong type", "42", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, ok := getUserID(c)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("getUserID = %d, %v; want %d, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}
