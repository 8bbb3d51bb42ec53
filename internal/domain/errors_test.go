package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestNotFoundError_UnwrapsToSentinel(t *testing.T) {
	err := &domain.NotFoundError{Kind: domain.ResourceProduct, ID: "p-1"}

	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatal("expected product NotFoundError to match ErrProductNotFound")
	}
	if errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatal("product NotFoundError must not match ErrOrderNotFound")
	}
	if !domain.IsNotFound(err) {
		t.Fatal("expected IsNotFound to report true")
	}
	if !strings.Contains(err.Error(), "p-1") {
		t.Fatalf("expected id in message, got %q", err.Error())
	}
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &domain.InsufficientStockError{ProductName: "Widget", Requested: 5, Available: 2}

	msg := err.Error()
	for _, part := range []string{"Widget", "5", "2"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("expected %q in message %q", part, msg)
		}
	}
}

func TestIsVersionConflict(t *testing.T) {
	wrapped := &domain.NotFoundError{Kind: domain.ResourceOrder, ID: "o-1"}
	if domain.IsVersionConflict(wrapped) {
		t.Fatal("not found must not be a version conflict")
	}
	if !domain.IsVersionConflict(domain.ErrOrderVersionConflict) {
		t.Fatal("expected version conflict to be detected")
	}
}
