package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestCase_StatusTransitions(t *testing.T) {
	radiologist := uuid.New()
	c := &Case{Status: CaseStatusPending}

	if c.Complete() {
		t.Fatal("pending case must not complete")
	}
	if !c.Assign(radiologist) {
		t.Fatal("pending case should be assignable")
	}
	if !c.IsAssigned() || !c.IsAssignedTo(radiologist) {
		t.Fatalf("expected ASSIGNED to %s, got %s / %v", radiologist, c.Status, c.AssigneeID)
	}
	if c.Assign(uuid.New()) {
		t.Fatal("assigned case must not be reassigned")
	}
	if !c.Complete() {
		t.Fatal("assigned case should complete")
	}
	if !c.IsCompleted() {
		t.Fatalf("expected COMPLETED, got %s", c.Status)
	}
	if c.Assign(uuid.New()) || c.Complete() {
		t.Fatal("completed case must not move again")
	}
	if !c.IsAssignedTo(radiologist) {
		t.Fatal("completed case keeps its assignee")
	}
}

func TestCase_VisibleTo(t *testing.T) {
	center := uuid.New()
	other := uuid.New()
	radiologist := uuid.New()

	pending := &Case{CreatorID: center, Status: CaseStatusPending}
	assigned := &Case{CreatorID: center, Status: CaseStatusAssigned, AssigneeID: &radiologist}

	if !pending.VisibleTo(center, RoleCenter) {
		t.Error("creator should see own case")
	}
	if pending.VisibleTo(other, RoleCenter) {
		t.Error("other center must not see the case")
	}
	if !pending.VisibleTo(other, RoleRadiologist) {
		t.Error("any radiologist should see a pending case")
	}
	if !assigned.VisibleTo(radiologist, RoleRadiologist) {
		t.Error("assignee should see the assigned case")
	}
	if assigned.VisibleTo(other, RoleRadiologist) {
		t.Error("other radiologist must not see an assigned case")
	}
	if pending.VisibleTo(center, Role("ADMIN")) {
		t.Error("unknown role sees nothing")
	}
}

func TestCasePriority_IsValid(t *testing.T) {
	for _, p := range []CasePriority{CasePriorityRoutine, CasePriorityUrgent, CasePriorityEmergency} {
		if !p.IsValid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if CasePriority("STAT").IsValid() {
		t.Error("STAT is not a known priority")
	}
}
