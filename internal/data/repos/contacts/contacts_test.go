package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/practiceboard-backend/internal/data/repos/testutil"
	types "github.com/yungbote/practiceboard-backend/internal/domain"
	"github.com/yungbote/practiceboard-backend/internal/platform/dbctx"
)

func TestContactReadRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	contacts := NewContactRepo(db, log)
	notes := NewNoteRepo(db, log)
	tasks := NewTaskRepo(db, log)
	goals := NewGoalRepo(db, log)

	owner := uuid.New()
	c := testutil.SeedContact(t, ctx, tx, owner, "Ada", "ada@example.com")

	if got, err := contacts.GetByID(dbc, owner, c.ID); err != nil || got == nil || got.PrimaryEmail == nil {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := contacts.GetByID(dbc, uuid.New(), c.ID); err != nil || got != nil {
		t.Fatalf("GetByID foreign owner: got=%v err=%v", got, err)
	}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		testutil.SeedNote(t, ctx, tx, owner, c.ID, "note", base.Add(time.Duration(i)*time.Hour))
	}
	rows, err := notes.ListRecentByContact(dbc, owner, c.ID, 5)
	if err != nil || len(rows) != 5 {
		t.Fatalf("ListRecentByContact notes: err=%v len=%d", err, len(rows))
	}
	if !rows[0].CreatedAt.After(rows[4].CreatedAt) {
		t.Fatalf("notes not newest first")
	}

	testutil.SeedTask(t, ctx, tx, owner, c.ID, "low", types.TaskStatusTodo, 1)
	testutil.SeedTask(t, ctx, tx, owner, c.ID, "high", types.TaskStatusInProgress, 9)
	testutil.SeedTask(t, ctx, tx, owner, c.ID, "finished", types.TaskStatusDone, 10)
	pending, err := tasks.ListPendingByContact(dbc, owner, c.ID, 10)
	if err != nil || len(pending) != 2 || pending[0].Title != "high" {
		t.Fatalf("ListPendingByContact: err=%v rows=%v", err, pending)
	}

	testutil.SeedGoal(t, ctx, tx, owner, c.ID, "older", base)
	testutil.SeedGoal(t, ctx, tx, owner, c.ID, "newer", base.Add(time.Hour))
	gs, err := goals.ListRecentByContact(dbc, owner, c.ID, 5)
	if err != nil || len(gs) != 2 || gs[0].Title != "newer" {
		t.Fatalf("ListRecentByContact goals: err=%v rows=%v", err, gs)
	}
}
