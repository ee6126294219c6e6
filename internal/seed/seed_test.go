package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
	"rove/internal/repository/postgres"
	"rove/internal/service/planner"
)

func TestStatementsUsePrefix(t *testing.T) {
	tables := postgres.NewTableNames("test_")
	for _, stmt := range Statements(tables, "test_") {
		if strings.Contains(stmt, "CREATE TABLE") && !strings.Contains(stmt, "test_") {
			t.Errorf("unprefixed table: %s", stmt)
		}
	}

	joined := strings.Join(Statements(tables, "test_"), "\n")
	for _, want := range []string{
		"test_chat_messages",
		"seq BIGSERIAL",
		"destination TEXT NOT NULL UNIQUE",
		"user_id UUID NOT NULL UNIQUE",
		"ON DELETE CASCADE",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}

func TestDropStatementsChildrenFirst(t *testing.T) {
	stmts := DropStatements(postgres.NewTableNames("dev_"))
	if len(stmts) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(stmts))
	}
	last := stmts[len(stmts)-1]
	if !strings.Contains(last, "dev_trips ") {
		t.Errorf("trips must be dropped last, got %q", last)
	}
}

type memTrips struct{ created []string }

func (m *memTrips) Create(ctx context.Context, userID string) (*models.Trip, error) {
	m.created = append(m.created, userID)
	return &models.Trip{ID: "trip-1", UserID: userID, Name: "New Trip"}, nil
}
func (m *memTrips) GetByOwner(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	return nil, nil
}
func (m *memTrips) ListByOwner(ctx context.Context, userID string) ([]models.Trip, error) {
	return nil, nil
}
func (m *memTrips) SetItineraryOptions(ctx context.Context, tripID string, itineraries []models.ComposedItinerary) error {
	return nil
}

type memMessages struct {
	turns []models.Turn
	fail  bool
}

func (m *memMessages) Append(ctx context.Context, tripID string, role models.ChatRole, content string) (*models.ChatMessage, error) {
	if m.fail {
		return nil, errors.New("insert failed")
	}
	m.turns = append(m.turns, models.Turn{Role: role, Content: content})
	return &models.ChatMessage{TripID: tripID, Role: role, Content: content}, nil
}
func (m *memMessages) ListOrdered(ctx context.Context, tripID string) ([]models.ChatMessage, error) {
	return nil, nil
}

type directTx struct{}

func (directTx) ExecTx(ctx context.Context, fn repositories.TxFn) error { return fn(ctx) }

func TestSeedTrip(t *testing.T) {
	trips, messages := &memTrips{}, &memMessages{}
	seeder := NewDemoSeeder(trips, messages, directTx{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	id, err := seeder.SeedTrip(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "trip-1" {
		t.Errorf("trip id = %q", id)
	}
	if len(messages.turns) != len(demoConversation) {
		t.Fatalf("expected %d messages, got %d", len(demoConversation), len(messages.turns))
	}
}

func TestSeedTripFailure(t *testing.T) {
	seeder := NewDemoSeeder(&memTrips{}, &memMessages{fail: true}, directTx{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := seeder.SeedTrip(context.Background(), "user-1"); err == nil {
		t.Fatal("expected error")
	}
}

// The demo conversation plus one more message must get past the gate.
func TestDemoConversationCompletesGate(t *testing.T) {
	var history strings.Builder
	for _, turn := range demoConversation {
		history.WriteString(string(turn.Role) + ": " + turn.Content + "\n")
	}
	if missing := planner.MissingFacets("Food and culture, mid-range please", history.String()); len(missing) != 0 {
		t.Errorf("gate still missing %v", missing)
	}
}
