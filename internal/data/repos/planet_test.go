package repos_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/astralnotes/astral-backend/internal/data/repos"
	"github.com/astralnotes/astral-backend/internal/data/repos/testutil"
	types "github.com/astralnotes/astral-backend/internal/domain"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
)

func TestPlanetRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := repos.NewPlanetRepo(db, testutil.Logger(t))
	userID := uuid.New()

	created, err := repo.Create(dbc, []*types.Planet{
		{ID: uuid.New(), UserID: userID, Name: "Biology", Color: "#fff"},
		{ID: uuid.New(), UserID: userID, Name: "History", Color: "#abc"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Create returned %d rows", len(created))
	}

	byID, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(byID) != 1 || byID[0].Name != "Biology" {
		t.Fatalf("GetByIDs: %+v", byID)
	}

	byUser, err := repo.GetByUserIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("GetByUserIDs returned %d rows", len(byUser))
	}
}

func TestPlanetRepoDuplicateNamesAllowed(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := repos.NewPlanetRepo(db, testutil.Logger(t))
	userID := uuid.New()

	for range 2 {
		if _, err := repo.Create(dbc, []*types.Planet{
			{ID: uuid.New(), UserID: userID, Name: "Biology", Color: "#fff"},
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	planets, err := repo.GetByUserIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	if len(planets) != 2 {
		t.Fatalf("expected two rows with the same name, got %d", len(planets))
	}
	if planets[0].ID == planets[1].ID {
		t.Fatal("rows must have distinct ids")
	}
}

func TestPlanetRepoGetOwned(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := repos.NewPlanetRepo(db, testutil.Logger(t))
	owner := uuid.New()
	planet := testutil.SeedPlanet(t, ctx, tx, owner, "Astronomy")

	got, err := repo.GetOwned(dbc, planet.ID, owner)
	if err != nil {
		t.Fatalf("GetOwned: %v", err)
	}
	if got == nil || got.ID != planet.ID {
		t.Fatalf("GetOwned owner lookup: %+v", got)
	}

	got, err = repo.GetOwned(dbc, planet.ID, uuid.New())
	if err != nil {
		t.Fatalf("GetOwned foreign user: %v", err)
	}
	if got != nil {
		t.Fatal("GetOwned must not return another user's planet")
	}

	got, err = repo.GetOwned(dbc, uuid.New(), owner)
	if err != nil {
		t.Fatalf("GetOwned unknown planet: %v", err)
	}
	if got != nil {
		t.Fatal("GetOwned must return nil for an unknown planet")
	}
}
