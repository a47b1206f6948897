package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	uid := primitive.NewObjectID()
	token, err := GenerateToken(uid, "admin", "tenant-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != uid.Hex() {
		t.Errorf("UserID = %q, want %q", claims.UserID, uid.Hex())
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.AdminID != "tenant-1" {
		t.Errorf("AdminID = %q", claims.AdminID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	SetSecret("secret-a")
	token, err := GenerateToken(primitive.NewObjectID(), "admin", "tenant-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	SetSecret("secret-b")
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("expected validation failure with different secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	SetSecret("test-secret")
	if _, err := ValidateToken("not.a.jwt"); err == nil {
		t.Fatal("expected validation failure")
	}
}
