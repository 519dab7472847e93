package student

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core"
)

func TestMakeVerifyToken(t *testing.T) {
	conf := &core.Config{
		SecretKey: "secret",
		Server:    core.ServerConfig{PasswordResetTimeoutDelta: 3 * 24 * time.Hour},
	}

	std := NewDefaultStudent("T", "t@test.test", time.Now().UTC())
	std.ID = primitive.NewObjectID()
	_ = std.SetPassword("pwd")

	validToken, err := MakeToken(conf, std)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	// generate an expired token
	dayLate := conf.Server.PasswordResetTimeoutDelta + (24 * time.Hour)
	NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := MakeToken(conf, std)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	NowFunc = time.Now // reset

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "no token", wantErr: errInvalidToken},
		{name: "invalid parts len", token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", token: expiredToken, wantErr: errTokenExpired},
		{name: "valid token", token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(conf, std, tt.token); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeDecodeUID(t *testing.T) {
	std := Student{ID: primitive.NewObjectID()}

	id, err := decodeUID(EncodeUID(std))
	if err != nil {
		t.Fatalf("decodeUID() failed: %v", err)
	}
	if id != std.ID {
		t.Errorf("decodeUID() = %s, want %s", id.Hex(), std.ID.Hex())
	}

	if _, err = decodeUID("%%%"); err == nil {
		t.Error("decodeUID() expected an error on invalid base64")
	}
}
