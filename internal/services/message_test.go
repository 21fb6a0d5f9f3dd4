package services

import (
	"context"
	"testing"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"
)

func TestSendMessage(t *testing.T) {
	ride := rideInStatus("rider-1", "driver-1", models.RideAccepted)
	store := newFakeMessageStore()
	notifier := &recordingNotifier{}
	svc := NewMessageService(store, newFakeRideStore(ride), notifier)

	msg, err := svc.SendMessage(context.Background(), ride.ID, "rider-1", "on my way down", "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.ReceiverID != "driver-1" {
		t.Errorf("receiver = %q, want the counterpart driver-1", msg.ReceiverID)
	}
	if msg.Type != "text" {
		t.Errorf("type = %q, want the text default", msg.Type)
	}
	if msg.Read {
		t.Error("new message should be unread")
	}
	if len(notifier.messages) != 1 || notifier.msgUsers[0] != "driver-1" {
		t.Error("receiver should be notified")
	}
}

func TestSendMessageGuards(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		ride := rideInStatus("rider-1", "driver-1", models.RideAccepted)
		svc := NewMessageService(newFakeMessageStore(), newFakeRideStore(ride), nil)
		if _, err := svc.SendMessage(context.Background(), ride.ID, "rider-1", "   ", ""); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("non-participant", func(t *testing.T) {
		ride := rideInStatus("rider-1", "driver-1", models.RideAccepted)
		svc := NewMessageService(newFakeMessageStore(), newFakeRideStore(ride), nil)
		if _, err := svc.SendMessage(context.Background(), ride.ID, "stranger", "hi", ""); !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("no driver yet", func(t *testing.T) {
		ride := pendingRide("rider-1")
		svc := NewMessageService(newFakeMessageStore(), newFakeRideStore(ride), nil)
		if _, err := svc.SendMessage(context.Background(), ride.ID, "rider-1", "hi", ""); !apperrors.IsKind(err, apperrors.KindConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})
}

func TestListMessages(t *testing.T) {
	ride := rideInStatus("rider-1", "driver-1", models.RideAccepted)
	store := newFakeMessageStore()
	svc := NewMessageService(store, newFakeRideStore(ride), nil)

	for _, content := range []string{"first", "second", "third"} {
		if _, err := svc.SendMessage(context.Background(), ride.ID, "rider-1", content, ""); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}

	msgs, err := svc.ListMessages(context.Background(), ride.ID, "driver-1")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Fatal("messages should be in chronological order")
		}
	}

	if _, err := svc.ListMessages(context.Background(), ride.ID, "stranger"); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	ride := rideInStatus("rider-1", "driver-1", models.RideAccepted)
	store := newFakeMessageStore()
	svc := NewMessageService(store, newFakeRideStore(ride), nil)

	sent, err := svc.SendMessage(context.Background(), ride.ID, "rider-1", "arriving", "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// only the receiver can mark it read
	if _, err := svc.MarkRead(context.Background(), sent.ID, "rider-1"); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("sender mark-read: expected not found, got %v", err)
	}

	read, err := svc.MarkRead(context.Background(), sent.ID, "driver-1")
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !read.Read || read.ReadAt == nil {
		t.Fatal("message should be read with a timestamp")
	}
	firstAt := *read.ReadAt

	again, err := svc.MarkRead(context.Background(), sent.ID, "driver-1")
	if err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if !again.ReadAt.Equal(firstAt) {
		t.Error("read timestamp is set once and must not move")
	}
}
