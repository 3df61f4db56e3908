package oauthstate

import (
	"testing"

	"github.com/dalemusser/strataleads/internal/testutil"
)

func TestStore_ConsumeIsSingleUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "state-abc", "/leads"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ret, ok, err := store.Consume(ctx, "state-abc")
	if err != nil || !ok {
		t.Fatalf("Consume() = %q, %v, %v", ret, ok, err)
	}
	if ret != "/leads" {
		t.Errorf("return path = %q, want /leads", ret)
	}

	if _, ok, _ := store.Consume(ctx, "state-abc"); ok {
		t.Error("state consumed twice")
	}
}

func TestStore_UnknownState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, ok, err := New(db).Consume(ctx, "never-issued"); ok || err != nil {
		t.Errorf("Consume() = %v, %v", ok, err)
	}
}

func TestStore_DuplicateRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "dup", ""); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, "dup", ""); err == nil {
		t.Error("duplicate state accepted")
	}
}
