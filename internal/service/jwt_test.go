package service

import (
	"testing"
	"time"
)

func TestJWTRoundTripCarriesRole(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42, RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestJWTDefaultsToPlayerRole(t *testing.T) {
	InitJWT("test-secret")

	token, _ := GenerateJWT(1, "")
	claims, err := ParseJWT(token)
	if err != nil || claims.Role != RolePlayer {
		t.Fatalf("expected player role, got %+v, %v", claims, err)
	}
}

func TestJWTRejectsExpiredAndForeign(t *testing.T) {
	InitJWT("test-secret")

	expired, _ := GenerateJWTWithTTL(1, RolePlayer, -time.Minute)
	if _, err := ParseJWT(expired); err == nil {
		t.Fatalf("expired token accepted")
	}

	InitJWT("other-secret")
	foreign, _ := GenerateJWT(1, RolePlayer)
	InitJWT("test-secret")
	if _, err := ParseJWT(foreign); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
}
