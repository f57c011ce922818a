package session

import (
	"context"
	"testing"
)

func TestMemoryRegisterVisitorCountsOnce(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	total, err := store.RegisterVisitor(ctx, "token-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}

	// Repeat from the same session leaves the total unchanged.
	total, err = store.RegisterVisitor(ctx, "token-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1 after repeat, got %d", total)
	}

	total, err = store.RegisterVisitor(ctx, "token-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2 after new session, got %d", total)
	}
}

func TestMemoryVisitorCountDoesNotRegister(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	total, err := store.VisitorCount(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Errorf("expected total 0, got %d", total)
	}

	if _, err := store.RegisterVisitor(ctx, "token-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total, err = store.VisitorCount(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
}

func TestMemoryConsentLifecycle(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	status, err := store.Consent(ctx, "token-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ConsentUnset {
		t.Errorf("expected unset consent, got %q", status)
	}

	if err := store.SetConsent(ctx, "token-a", ConsentAccepted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err = store.Consent(ctx, "token-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ConsentAccepted {
		t.Errorf("expected accepted, got %q", status)
	}

	// Another token is unaffected.
	status, err = store.Consent(ctx, "token-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ConsentUnset {
		t.Errorf("expected unset consent for other token, got %q", status)
	}
}

func TestConsentValid(t *testing.T) {
	if !ConsentAccepted.Valid() {
		t.Error("accepted should be valid")
	}
	if !ConsentDismissed.Valid() {
		t.Error("dismissed should be valid")
	}
	if ConsentUnset.Valid() {
		t.Error("unset should not be valid")
	}
	if Consent("maybe").Valid() {
		t.Error("unknown value should not be valid")
	}
}
