package gateway

import "testing"

func TestSign_Deterministic(t *testing.T) {
	a := Sign("s3cr3t", "order_1", "pay_1")
	b := Sign("s3cr3t", "order_1", "pay_1")
	if a != b {
		t.Fatalf("signature not deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestVerifySignature(t *testing.T) {
	sig := Sign("s3cr3t", "order_1", "pay_1")

	if !VerifySignature("s3cr3t", "order_1", "pay_1", sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifySignature("s3cr3t", "order_1", "pay_1", "deadbeef") {
		t.Fatal("bogus signature accepted")
	}
	if VerifySignature("s3cr3t", "order_1", "pay_2", sig) {
		t.Fatal("signature accepted for different payment id")
	}
	if VerifySignature("wrong", "order_1", "pay_1", sig) {
		t.Fatal("signature accepted with wrong secret")
	}
	if VerifySignature("s3cr3t", "order_1", "pay_1", "") {
		t.Fatal("empty signature accepted")
	}
}
