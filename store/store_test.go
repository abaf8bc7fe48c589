package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/showgrid/broadcast/publish"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA foreign_keys=ON")
	if err := ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func testRecord(id, code, owner, fileName string) *publish.Record {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return &publish.Record{
		ID:        id,
		Code:      code,
		OwnerID:   owner,
		FileName:  fileName,
		Title:     strings.ReplaceAll(fileName, "_", " "),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestApplySchema(t *testing.T) {
	// WHAT: Schema creates both tables.
	// WHY: Everything else depends on it.
	s := openTestStore(t)
	for _, table := range []string{"broadcasts", "settings"} {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestCreateAndFind(t *testing.T) {
	// WHAT: Create then find by natural key and by code.
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("b-001", "abcdef", "usr_1", "Morning_Show")
	rec.AutoUpdate = true
	if err := s.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Find(ctx, "usr_1", "Morning_Show")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatal("record not found")
	}
	if got.Code != "abcdef" || !got.AutoUpdate || got.Title != "Morning Show" {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	byCode, err := s.FindByCode(ctx, "abcdef")
	if err != nil || byCode == nil || byCode.ID != "b-001" {
		t.Errorf("find by code: rec=%v err=%v", byCode, err)
	}
}

func TestFind_Absent(t *testing.T) {
	// WHAT: Absent records come back as nil, nil — not an error.
	// WHY: "No record yet" is a normal publish-path outcome.
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Find(ctx, "usr_1", "nope")
	if err != nil || rec != nil {
		t.Errorf("Find absent: rec=%v err=%v", rec, err)
	}
	rec, err = s.FindByCode(ctx, "zzzzzz")
	if err != nil || rec != nil {
		t.Errorf("FindByCode absent: rec=%v err=%v", rec, err)
	}
}

func TestCreate_NaturalKeyUnique(t *testing.T) {
	// WHAT: A second create for the same (owner, file_name) fails.
	// WHY: The store is the last line of defense when two publishes of the
	// same document race past the in-process cache.
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, testRecord("b-001", "abcdef", "usr_1", "Show")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.Create(ctx, testRecord("b-002", "ghjkmn", "usr_1", "Show"))
	if err == nil {
		t.Fatal("duplicate natural key must fail")
	}

	// The original row is untouched.
	got, _ := s.Find(ctx, "usr_1", "Show")
	if got == nil || got.ID != "b-001" {
		t.Errorf("surviving record: %+v", got)
	}
}

func TestCreate_CodeUnique(t *testing.T) {
	// WHAT: A duplicate code fails even across owners.
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, testRecord("b-001", "abcdef", "usr_1", "A")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, testRecord("b-002", "abcdef", "usr_2", "B")); err == nil {
		t.Fatal("duplicate code must fail")
	}
}

func TestUpdate_PreservesIdentity(t *testing.T) {
	// WHAT: Update rewrites title/auto_update/updated_at and nothing else.
	// WHY: The code is generated once and never regenerated.
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, testRecord("b-001", "abcdef", "usr_1", "Show")); err != nil {
		t.Fatalf("create: %v", err)
	}
	later := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)
	got, err := s.Update(ctx, "b-001", publish.Fields{
		Title:      "Show (final)",
		AutoUpdate: true,
		UpdatedAt:  later,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Code != "abcdef" || got.ID != "b-001" {
		t.Errorf("identity changed on update: %+v", got)
	}
	if got.Title != "Show (final)" || !got.AutoUpdate || !got.UpdatedAt.Equal(later) {
		t.Errorf("fields not applied: %+v", got)
	}
}

func TestUpdate_MissingRecord(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Update(context.Background(), "missing", publish.Fields{Title: "x"})
	if err == nil {
		t.Fatal("updating a missing record must fail")
	}
}

func TestListByOwner(t *testing.T) {
	// WHAT: Listing returns only the owner's records, most recent first.
	s := openTestStore(t)
	ctx := context.Background()

	a := testRecord("b-001", "aaaaaa", "usr_1", "Alpha")
	b := testRecord("b-002", "bbbbbb", "usr_1", "Beta")
	b.UpdatedAt = b.UpdatedAt.Add(time.Hour)
	other := testRecord("b-003", "cccccc", "usr_2", "Gamma")
	for _, rec := range []*publish.Record{a, b, other} {
		if err := s.Create(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", rec.ID, err)
		}
	}

	recs, err := s.ListByOwner(ctx, "usr_1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].ID != "b-002" || recs[1].ID != "b-001" {
		t.Errorf("order wrong: %s then %s", recs[0].ID, recs[1].ID)
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	// WHAT: Set then Get round-trips; absent keys read as "".
	// WHY: The auto-publish toggle persists across restarts through this.
	s := openTestStore(t)
	ctx := context.Background()

	val, err := s.Get(ctx, publish.AutoPublishKey)
	if err != nil || val != "" {
		t.Errorf("absent key: val=%q err=%v", val, err)
	}

	if err := s.Set(ctx, publish.AutoPublishKey, "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err = s.Get(ctx, publish.AutoPublishKey)
	if err != nil || val != "1" {
		t.Errorf("after set: val=%q err=%v", val, err)
	}

	// Overwrite.
	if err := s.Set(ctx, publish.AutoPublishKey, "0"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	val, _ = s.Get(ctx, publish.AutoPublishKey)
	if val != "0" {
		t.Errorf("after overwrite: val=%q", val)
	}
}

func TestStore_SatisfiesPublishInterfaces(t *testing.T) {
	// WHAT: The store implements the coordinator's collaborator contracts.
	var _ publish.RecordStore = (*Store)(nil)
	var _ publish.Settings = (*Store)(nil)
}
