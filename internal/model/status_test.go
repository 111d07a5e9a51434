package model

import "testing"

func TestCanTransition_ForwardChain(t *testing.T) {
	chain := []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered}
	for i := 0; i < len(chain)-1; i++ {
		if !CanTransition(chain[i], chain[i+1]) {
			t.Fatalf("expected %s -> %s to be legal", chain[i], chain[i+1])
		}
	}
	// no skipping ahead
	if CanTransition(OrderConfirmed, OrderShipped) {
		t.Fatal("Confirmed -> Shipped should be illegal")
	}
	// no moving backwards
	if CanTransition(OrderShipped, OrderProcessing) {
		t.Fatal("Shipped -> Processing should be illegal")
	}
}

func TestCanTransition_CancelFromNonTerminal(t *testing.T) {
	for _, from := range []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped} {
		if !CanTransition(from, OrderCancelled) {
			t.Fatalf("expected %s -> Cancelled to be legal", from)
		}
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	all := []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}
	for _, terminal := range []OrderStatus{OrderDelivered, OrderCancelled} {
		for _, to := range all {
			if CanTransition(terminal, to) {
				t.Fatalf("terminal %s must not transition to %s", terminal, to)
			}
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(OrderShipped) {
		t.Fatal("Shipped should be valid")
	}
	if ValidStatus("Teleported") {
		t.Fatal("unknown status should be invalid")
	}
}
