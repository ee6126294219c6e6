package trip

import (
	"context"
	"testing"

	"rove/internal/domain"
	"rove/internal/domain/models"
)

func TestTripService(t *testing.T) {
	trips := newFakeTrips()
	messages := &fakeMessages{}
	svc := NewTripService(trips, messages, testLogger())
	ctx := context.Background()

	first, _ := trips.Create(ctx, "user-1")
	second, _ := trips.Create(ctx, "user-1")
	_, _ = trips.Create(ctx, "user-2")
	_, _ = messages.Append(ctx, first.ID, models.ChatRoleUser, "hello")
	_, _ = messages.Append(ctx, first.ID, models.ChatRoleAssistant, "hi")

	list, err := svc.ListTrips(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("expected newest first, got %+v", list)
	}

	detail, err := svc.GetTrip(ctx, "user-1", first.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if len(detail.Messages) != 2 || detail.Messages[0].Content != "hello" {
		t.Errorf("unexpected messages: %+v", detail.Messages)
	}

	if _, err := svc.GetTrip(ctx, "user-2", first.ID); err != domain.ErrTripNotFound {
		t.Errorf("expected ErrTripNotFound for another user, got %v", err)
	}
}
