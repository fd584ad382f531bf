package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type fakePositions struct {
	byTitle      map[string]*Position
	cursors      map[uuid.UUID]int64
	advanceCalls int
}

func (f *fakePositions) Find(_ context.Context, _ uuid.UUID, title string) (*Position, error) {
	return f.byTitle[title], nil
}

func (f *fakePositions) AdvanceCursor(_ context.Context, positionID uuid.UUID) (int64, error) {
	previous := f.cursors[positionID]
	f.cursors[positionID] = previous + 1
	f.advanceCalls++
	return previous, nil
}

type fakeMembers struct {
	eligible map[uuid.UUID][]Member
	earliest map[string]*Member
}

func (f *fakeMembers) FindEligible(_ context.Context, positionID uuid.UUID) ([]Member, error) {
	return f.eligible[positionID], nil
}

func (f *fakeMembers) FindEarliestEligibleByTitle(_ context.Context, _ uuid.UUID, title string) (*Member, error) {
	return f.earliest[title], nil
}

func newMember(name string) Member {
	return Member{ID: uuid.New(), Name: name, Email: name + "@example.com"}
}

func TestNextMemberRotatesFairly(t *testing.T) {
	tenantID := uuid.New()
	position := &Position{ID: uuid.New(), Title: "Account Executive"}
	members := []Member{newMember("alice"), newMember("bob"), newMember("carol")}

	positions := &fakePositions{
		byTitle: map[string]*Position{position.Title: position},
		cursors: map[uuid.UUID]int64{},
	}
	directory := &fakeMembers{eligible: map[uuid.UUID][]Member{position.ID: members}}
	assignor := NewAssignor(positions, directory)

	counts := map[uuid.UUID]int{}
	var sequence []string
	for i := 0; i < 7; i++ {
		member, err := assignor.NextMember(context.Background(), tenantID, position.Title)
		if err != nil {
			t.Fatalf("NextMember: %v", err)
		}
		if member == nil {
			t.Fatal("expected a member, got nil")
		}
		counts[member.ID]++
		sequence = append(sequence, member.Name)
	}

	// 7 assignments over 3 members: each gets 2 or 3.
	for id, n := range counts {
		if n < 2 || n > 3 {
			t.Errorf("member %s got %d assignments, want 2 or 3", id, n)
		}
	}
	want := []string{"alice", "bob", "carol", "alice", "bob", "carol", "alice"}
	for i, name := range want {
		if sequence[i] != name {
			t.Fatalf("assignment %d went to %s, want %s (sequence %v)", i, sequence[i], name, sequence)
		}
	}
}

func TestNextMemberRecomputesOverShrunkenSet(t *testing.T) {
	tenantID := uuid.New()
	position := &Position{ID: uuid.New(), Title: "Account Executive"}
	alice := newMember("alice")
	carol := newMember("carol")

	// Two assignments already happened; bob has since become unavailable.
	positions := &fakePositions{
		byTitle: map[string]*Position{position.Title: position},
		cursors: map[uuid.UUID]int64{position.ID: 2},
	}
	directory := &fakeMembers{eligible: map[uuid.UUID][]Member{position.ID: {alice, carol}}}
	assignor := NewAssignor(positions, directory)

	member, err := assignor.NextMember(context.Background(), tenantID, position.Title)
	if err != nil {
		t.Fatalf("NextMember: %v", err)
	}
	// Cursor 2 over a 2-member set wraps back to the first member.
	if member == nil || member.ID != alice.ID {
		t.Fatalf("got %+v, want alice", member)
	}
	if positions.cursors[position.ID] != 3 {
		t.Errorf("cursor = %d, want 3", positions.cursors[position.ID])
	}
}

func TestNextMemberNoEligibleMembers(t *testing.T) {
	tenantID := uuid.New()
	position := &Position{ID: uuid.New(), Title: "Account Executive"}

	positions := &fakePositions{
		byTitle: map[string]*Position{position.Title: position},
		cursors: map[uuid.UUID]int64{},
	}
	directory := &fakeMembers{eligible: map[uuid.UUID][]Member{}}
	assignor := NewAssignor(positions, directory)

	member, err := assignor.NextMember(context.Background(), tenantID, position.Title)
	if err != nil {
		t.Fatalf("NextMember: %v", err)
	}
	if member != nil {
		t.Fatalf("expected nil member, got %+v", member)
	}
	if positions.advanceCalls != 0 {
		t.Errorf("cursor advanced %d times with no eligible members, want 0", positions.advanceCalls)
	}
}

func TestNextMemberFallsBackWithoutPosition(t *testing.T) {
	tenantID := uuid.New()
	dave := newMember("dave")

	positions := &fakePositions{byTitle: map[string]*Position{}, cursors: map[uuid.UUID]int64{}}
	directory := &fakeMembers{earliest: map[string]*Member{"SDR": &dave}}
	assignor := NewAssignor(positions, directory)

	member, err := assignor.NextMember(context.Background(), tenantID, "SDR")
	if err != nil {
		t.Fatalf("NextMember: %v", err)
	}
	if member == nil || member.ID != dave.ID {
		t.Fatalf("got %+v, want dave", member)
	}
	if positions.advanceCalls != 0 {
		t.Errorf("fallback path advanced a cursor %d times, want 0", positions.advanceCalls)
	}
}

func TestNextMemberNothingMatches(t *testing.T) {
	positions := &fakePositions{byTitle: map[string]*Position{}, cursors: map[uuid.UUID]int64{}}
	directory := &fakeMembers{earliest: map[string]*Member{}}
	assignor := NewAssignor(positions, directory)

	member, err := assignor.NextMember(context.Background(), uuid.New(), "Ghost Title")
	if err != nil {
		t.Fatalf("NextMember: %v", err)
	}
	if member != nil {
		t.Fatalf("expected nil member, got %+v", member)
	}
}
