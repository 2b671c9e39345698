package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/JakeFAU/jobshare/internal/store"
)

func TestStatusStoreLifecycle(t *testing.T) {
	t.Parallel()

	s := NewStatusStore()
	ctx := context.Background()
	check := store.StatusCheck{ID: "check-1", ClientName: "crawler", Timestamp: time.Unix(100, 0).UTC()}

	if err := s.CreateStatusCheck(ctx, check); err != nil {
		t.Fatalf("CreateStatusCheck() error = %v", err)
	}
	if err := s.CreateStatusCheck(ctx, check); err == nil {
		t.Fatal("expected duplicate status check error")
	}
	checks, err := s.ListStatusChecks(ctx, store.MaxStatusChecks)
	if err != nil || len(checks) != 1 {
		t.Fatalf("ListStatusChecks() unexpected result: checks=%v err=%v", checks, err)
	}
	checks[0].ClientName = "modified"
	if s.checks[0].ClientName != "crawler" {
		t.Fatal("expected ListStatusChecks to return a copy")
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestStatusStoreRejectsMissingClientName(t *testing.T) {
	t.Parallel()

	s := NewStatusStore()
	err := s.CreateStatusCheck(context.Background(), store.StatusCheck{ID: "x", Timestamp: time.Now()})
	if !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestStatusStoreListIsBounded(t *testing.T) {
	t.Parallel()

	s := NewStatusStore()
	ctx := context.Background()
	for i := 0; i < store.MaxStatusChecks+5; i++ {
		check := store.StatusCheck{ID: fmt.Sprintf("id-%d", i), ClientName: "c", Timestamp: time.Unix(int64(i), 0)}
		if err := s.CreateStatusCheck(ctx, check); err != nil {
			t.Fatalf("CreateStatusCheck(%d) error = %v", i, err)
		}
	}
	checks, err := s.ListStatusChecks(ctx, 0)
	if err != nil {
		t.Fatalf("ListStatusChecks() error = %v", err)
	}
	if len(checks) != store.MaxStatusChecks {
		t.Fatalf("expected %d checks, got %d", store.MaxStatusChecks, len(checks))
	}
	if checks[0].ID != "id-0" {
		t.Fatalf("expected insertion order, first id = %s", checks[0].ID)
	}
	small, _ := s.ListStatusChecks(ctx, 3)
	if len(small) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(small))
	}
}
