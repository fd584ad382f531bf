package service

import (
	"context"

	"github.com/google/uuid"
)

// Assignor picks the next member for a task template using a persisted
// round-robin cursor per position. The cursor counts assignments ever made
// for the position, not an index into the member list: the eligible set is
// re-read on every assignment, so members joining, leaving or toggling
// availability never corrupt the rotation.
type Assignor struct {
	positions PositionDirectory
	members   MemberDirectory
}

func NewAssignor(positions PositionDirectory, members MemberDirectory) *Assignor {
	return &Assignor{positions: positions, members: members}
}

// NextMember resolves the assignee for a template's position title.
// It returns (nil, nil) when nobody is eligible; the caller skips the
// template in that case. The cursor only advances when a member is actually
// selected, so skipped templates do not burn rotation slots.
func (a *Assignor) NextMember(ctx context.Context, tenantID uuid.UUID, positionTitle string) (*Member, error) {
	position, err := a.positions.Find(ctx, tenantID, positionTitle)
	if err != nil {
		return nil, err
	}
	if position == nil {
		// No position row carries this title. Degraded mode: assign the
		// longest-standing eligible member with a matching title and leave
		// every cursor untouched.
		return a.members.FindEarliestEligibleByTitle(ctx, tenantID, positionTitle)
	}

	eligible, err := a.members.FindEligible(ctx, position.ID)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	cursor, err := a.positions.AdvanceCursor(ctx, position.ID)
	if err != nil {
		return nil, err
	}

	member := eligible[cursor%int64(len(eligible))]
	return &member, nil
}
