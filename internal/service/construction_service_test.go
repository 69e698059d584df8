package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestConstructionService(repo *mockProfileSettingRepo, policy string, clock *fakeNow) *ConstructionService {
	svc := NewConstructionService(repo, ConstructionOptions{
		Window:                5 * time.Minute,
		MissingDeadlinePolicy: policy,
	}, nil)
	return svc.WithClock(clock.Now)
}

func TestEffectiveStateWithoutRecordIsInactive(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)

	state, err := svc.GetEffectiveState(context.Background())
	if err != nil {
		t.Fatalf("get effective state failed: %v", err)
	}
	if state.IsActive || state.ActiveUntil != nil {
		t.Fatalf("expected inactive state, got %+v", state)
	}
	if repo.writeCount() != 0 {
		t.Fatalf("reading a missing record should not write")
	}
}

func TestEffectiveStateCorrectsExpiredRecord(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	past := clock.Now().Add(-time.Second)
	repo.seedConstruction(true, &past)
	m := metrics.New()
	svc := NewConstructionService(repo, ConstructionOptions{}, m).WithClock(clock.Now)

	state, err := svc.GetEffectiveState(context.Background())
	if err != nil {
		t.Fatalf("get effective state failed: %v", err)
	}
	if state.IsActive || state.ActiveUntil != nil {
		t.Fatalf("expired state should read as inactive, got %+v", state)
	}

	stored := repo.snapshot()
	if stored.IsUnderConstruction || stored.ConstructionActiveUntil != nil {
		t.Fatalf("corrected state should be persisted, got %+v", stored.Construction())
	}
	if got := testutil.ToFloat64(m.ConstructionHealed); got != 1 {
		t.Fatalf("self heal counter want 1 got %v", got)
	}

	again, err := svc.GetEffectiveState(context.Background())
	if err != nil || again.IsActive {
		t.Fatalf("subsequent read want inactive, got %+v err=%v", again, err)
	}
	if repo.writeCount() != 1 {
		t.Fatalf("second read should not write again, writes=%d", repo.writeCount())
	}
}

func TestEffectiveStateDeadlineEqualNowIsExpired(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	now := clock.Now()
	repo.seedConstruction(true, &now)
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)

	state, err := svc.GetEffectiveState(context.Background())
	if err != nil || state.IsActive {
		t.Fatalf("deadline at now should be expired, got %+v err=%v", state, err)
	}
}

func TestEffectiveStateActiveWithinWindow(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	future := clock.Now().Add(time.Minute)
	repo.seedConstruction(true, &future)
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)

	state, err := svc.GetEffectiveState(context.Background())
	if err != nil {
		t.Fatalf("get effective state failed: %v", err)
	}
	if !state.IsActive || state.ActiveUntil == nil || !state.ActiveUntil.Equal(future) {
		t.Fatalf("expected active state until %s, got %+v", future, state)
	}
	if repo.writeCount() != 0 {
		t.Fatalf("valid state should not be rewritten")
	}
}

func TestEffectiveStateInactiveFlagIgnoresDeadline(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	future := clock.Now().Add(time.Minute)
	repo.seedConstruction(false, &future)
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)

	state, err := svc.GetEffectiveState(context.Background())
	if err != nil || state.IsActive {
		t.Fatalf("inactive flag should stay inactive, got %+v err=%v", state, err)
	}
}

func TestEffectiveStateMissingDeadlinePolicy(t *testing.T) {
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	t.Run("inactive", func(t *testing.T) {
		repo := newMockProfileSettingRepo()
		repo.seedConstruction(true, nil)
		svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)
		state, err := svc.GetEffectiveState(context.Background())
		if err != nil || state.IsActive {
			t.Fatalf("fail-safe policy want inactive, got %+v err=%v", state, err)
		}
		if repo.snapshot().IsUnderConstruction {
			t.Fatalf("fail-safe policy should correct the record")
		}
	})

	t.Run("active", func(t *testing.T) {
		repo := newMockProfileSettingRepo()
		repo.seedConstruction(true, nil)
		svc := newTestConstructionService(repo, constants.MissingDeadlineActive, clock)
		state, err := svc.GetEffectiveState(context.Background())
		if err != nil || !state.IsActive || state.ActiveUntil != nil {
			t.Fatalf("active policy want active without deadline, got %+v err=%v", state, err)
		}
		if repo.writeCount() != 0 {
			t.Fatalf("active policy should leave the record untouched")
		}
	})
}

func TestHeartbeatLastWriteWins(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)
	ctx := context.Background()

	if _, err := svc.Heartbeat(ctx); err != nil {
		t.Fatalf("first heartbeat failed: %v", err)
	}
	clock.Advance(90 * time.Second)
	second, err := svc.Heartbeat(ctx)
	if err != nil {
		t.Fatalf("second heartbeat failed: %v", err)
	}

	want := clock.Now().Add(5 * time.Minute)
	if !second.Equal(want) {
		t.Fatalf("heartbeat return want %s got %s", want, second)
	}
	stored := repo.snapshot()
	if stored.ConstructionActiveUntil == nil || !stored.ConstructionActiveUntil.Equal(want) {
		t.Fatalf("active until want %s got %v", want, stored.ConstructionActiveUntil)
	}
	if stored.IsUnderConstruction {
		t.Fatalf("heartbeat must not change the active flag")
	}
}

func TestHeartbeatKeepsActiveFlag(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)
	ctx := context.Background()

	if _, err := svc.Activate(ctx); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	clock.Advance(4 * time.Minute)
	if _, err := svc.Heartbeat(ctx); err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}
	clock.Advance(4 * time.Minute)

	state, err := svc.GetEffectiveState(ctx)
	if err != nil {
		t.Fatalf("get effective state failed: %v", err)
	}
	if !state.IsActive {
		t.Fatalf("heartbeat should have extended the window past the original deadline")
	}
}

func TestDeactivateClearsState(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)
	ctx := context.Background()

	if _, err := svc.Activate(ctx); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if err := svc.Deactivate(ctx); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	stored := repo.snapshot()
	if stored.IsUnderConstruction || stored.ConstructionActiveUntil != nil {
		t.Fatalf("deactivate should clear both fields, got %+v", stored.Construction())
	}
}

func TestConstructionPersistenceErrors(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)
	ctx := context.Background()

	repo.writeErr = errStoreDown
	if _, err := svc.Heartbeat(ctx); !errors.Is(err, ErrPersistence) {
		t.Fatalf("heartbeat failure want ErrPersistence got %v", err)
	}
	if err := svc.Deactivate(ctx); !errors.Is(err, ErrPersistence) {
		t.Fatalf("deactivate failure want ErrPersistence got %v", err)
	}

	repo.getErr = errStoreDown
	if _, err := svc.GetEffectiveState(ctx); !errors.Is(err, ErrPersistence) {
		t.Fatalf("read failure want ErrPersistence got %v", err)
	}
}

func TestCorrectionFailureStillReadsInactive(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	past := clock.Now().Add(-time.Minute)
	repo.seedConstruction(true, &past)
	repo.writeErr = errStoreDown
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)

	state, err := svc.GetEffectiveState(context.Background())
	if err != nil || state.IsActive {
		t.Fatalf("stale state must never surface, got %+v err=%v", state, err)
	}
}

func TestConstructionChangeHook(t *testing.T) {
	repo := newMockProfileSettingRepo()
	clock := newFakeNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestConstructionService(repo, constants.MissingDeadlineInactive, clock)
	calls := 0
	svc.OnChange(func(context.Context) { calls++ })

	ctx := context.Background()
	_, _ = svc.Activate(ctx)
	_, _ = svc.Heartbeat(ctx)
	_ = svc.Deactivate(ctx)
	if calls != 3 {
		t.Fatalf("change hook want 3 calls got %d", calls)
	}
}
