package idle

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	seq      int
	fn       func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance 推进时间并按到期顺序触发计时器
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.deadline.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].deadline.Equal(due[j].deadline) {
				return due[i].seq < due[j].seq
			}
			return due[i].deadline.Before(due[j].deadline)
		})
		next := due[0]
		next.fired = true
		c.now = next.deadline
		c.mu.Unlock()
		next.fn()
	}
}

type recordingSession struct {
	mu           sync.Mutex
	heartbeats   int
	logouts      int
	heartbeatErr error
	logoutErr    error
}

func (s *recordingSession) Heartbeat(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heartbeats++
	return s.heartbeatErr
}

func (s *recordingSession) Logout(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
	return s.logoutErr
}

func (s *recordingSession) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heartbeats, s.logouts
}

type recordingPrompter struct {
	shown     int
	hidden    int
	remaining time.Duration
}

func (p *recordingPrompter) ShowWarning(remaining time.Duration) {
	p.shown++
	p.remaining = remaining
}

func (p *recordingPrompter) HideWarning() {
	p.hidden++
}

type recordingNavigator struct {
	calls int
}

func (n *recordingNavigator) ToLogin() {
	n.calls++
}

type fixture struct {
	clock     *fakeClock
	session   *recordingSession
	prompter  *recordingPrompter
	navigator *recordingNavigator
	coord     *Coordinator
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		clock:     newFakeClock(),
		session:   &recordingSession{},
		prompter:  &recordingPrompter{},
		navigator: &recordingNavigator{},
	}
	coord, err := New(cfg, f.session, f.prompter, f.navigator, WithClock(f.clock))
	if err != nil {
		t.Fatalf("new coordinator failed: %v", err)
	}
	f.coord = coord
	coord.Start()
	return f
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "default", cfg: DefaultConfig(), ok: true},
		{name: "zero warning", cfg: Config{ForceLogoutDelay: time.Minute}},
		{name: "equal delays", cfg: Config{WarningDelay: time.Minute, ForceLogoutDelay: time.Minute}},
		{name: "force before warning", cfg: Config{WarningDelay: 2 * time.Minute, ForceLogoutDelay: time.Minute}},
		{name: "negative heartbeat interval", cfg: Config{WarningDelay: time.Minute, ForceLogoutDelay: 2 * time.Minute, HeartbeatMinInterval: -time.Second}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNoActivityWarnsThenLogsOutOnce(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	f.clock.Advance(2*time.Minute - time.Second)
	if f.coord.State() != StateActive {
		t.Fatalf("state before warning want active got %s", f.coord.State())
	}
	f.clock.Advance(time.Second)
	if f.coord.State() != StateWarningShown {
		t.Fatalf("state at 2m want warning_shown got %s", f.coord.State())
	}
	if f.prompter.shown != 1 || f.prompter.remaining != time.Minute {
		t.Fatalf("prompt should show once with 1m remaining, got %d %s", f.prompter.shown, f.prompter.remaining)
	}

	f.clock.Advance(time.Minute)
	if f.coord.State() != StateLoggedOut {
		t.Fatalf("state at 3m want logged_out got %s", f.coord.State())
	}
	f.clock.Advance(10 * time.Minute)
	heartbeats, logouts := f.session.counts()
	if logouts != 1 || heartbeats != 0 {
		t.Fatalf("want exactly one logout and no heartbeat, got logouts=%d heartbeats=%d", logouts, heartbeats)
	}
	if f.navigator.calls != 1 {
		t.Fatalf("navigator should be called once, got %d", f.navigator.calls)
	}
	if f.prompter.hidden != 1 {
		t.Fatalf("prompt should be hidden on logout, got %d", f.prompter.hidden)
	}
}

func TestActivityBeforeWarningShiftsTimers(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	f.clock.Advance(90 * time.Second)
	f.coord.Activity(ActivityPointerMove)
	if heartbeats, _ := f.session.counts(); heartbeats != 1 {
		t.Fatalf("activity should send one heartbeat, got %d", heartbeats)
	}

	f.clock.Advance(30 * time.Second) // t=2m
	if f.coord.State() != StateActive || f.prompter.shown != 0 {
		t.Fatalf("warning must not fire at 2m after reset")
	}
	f.clock.Advance(90*time.Second - time.Second) // t=3m29s
	if f.coord.State() != StateActive {
		t.Fatalf("warning fired too early")
	}
	f.clock.Advance(time.Second) // t=3m30s
	if f.coord.State() != StateWarningShown {
		t.Fatalf("warning should fire at 3m30s, got %s", f.coord.State())
	}
	f.clock.Advance(time.Minute) // t=4m30s
	if f.coord.State() != StateLoggedOut {
		t.Fatalf("force logout should fire at 4m30s, got %s", f.coord.State())
	}
}

func TestWarningDoesNotCancelForceTimer(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.clock.Advance(2 * time.Minute)
	// 提示显示期间不做任何操作
	f.clock.Advance(time.Minute)
	if f.coord.State() != StateLoggedOut {
		t.Fatalf("force logout should fire while warning is shown")
	}
}

func TestStayLoggedInAndDismissReset(t *testing.T) {
	for _, respond := range []struct {
		name string
		fn   func(*Coordinator)
	}{
		{name: "stay", fn: (*Coordinator).StayLoggedIn},
		{name: "dismiss", fn: (*Coordinator).Dismiss},
	} {
		t.Run(respond.name, func(t *testing.T) {
			f := newFixture(t, DefaultConfig())
			f.clock.Advance(2*time.Minute + 30*time.Second)
			respond.fn(f.coord)
			if f.coord.State() != StateActive || f.prompter.hidden != 1 {
				t.Fatalf("response should return to active and hide prompt")
			}
			// 原强制退出时间点（3m）已失效
			f.clock.Advance(time.Minute)
			if f.coord.State() != StateActive {
				t.Fatalf("stale force timer must be ignored, got %s", f.coord.State())
			}
			f.clock.Advance(2 * time.Minute)
			if f.coord.State() != StateLoggedOut {
				t.Fatalf("new force timer should fire 3m after response, got %s", f.coord.State())
			}
			if _, logouts := f.session.counts(); logouts != 1 {
				t.Fatalf("want one logout got %d", logouts)
			}
		})
	}
}

func TestLogOutOnlyFromWarning(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.coord.LogOut()
	if f.coord.State() != StateActive {
		t.Fatalf("log out without prompt should be ignored")
	}

	f.clock.Advance(2 * time.Minute)
	f.coord.LogOut()
	if f.coord.State() != StateLoggedOut {
		t.Fatalf("log out from prompt should terminate, got %s", f.coord.State())
	}
	f.clock.Advance(5 * time.Minute)
	if _, logouts := f.session.counts(); logouts != 1 {
		t.Fatalf("force timer must not log out again, got %d", logouts)
	}
}

func TestActivityIgnoredAfterLogout(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.clock.Advance(3 * time.Minute)

	f.coord.Activity(ActivityKeyPress)
	f.coord.StayLoggedIn()
	if f.coord.State() != StateLoggedOut {
		t.Fatalf("logged out is terminal, got %s", f.coord.State())
	}
	if heartbeats, _ := f.session.counts(); heartbeats != 0 {
		t.Fatalf("no heartbeat after logout, got %d", heartbeats)
	}
}

func TestUnknownActivityIgnored(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.clock.Advance(time.Minute)
	f.coord.Activity(ActivityKind("focus"))
	f.clock.Advance(time.Minute)
	if f.coord.State() != StateWarningShown {
		t.Fatalf("unknown activity should not reset timers")
	}
}

func TestFailuresAreLoggedNotFatal(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.session.heartbeatErr = errors.New("network down")
	f.session.logoutErr = errors.New("network down")

	f.coord.Activity(ActivityClick)
	if f.coord.State() != StateActive {
		t.Fatalf("heartbeat failure should not change state")
	}
	f.clock.Advance(3 * time.Minute)
	if f.coord.State() != StateLoggedOut || f.navigator.calls != 1 {
		t.Fatalf("logout failure should still navigate to login")
	}
}

func TestHeartbeatMinInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeartbeatMinInterval = 30 * time.Second
	f := newFixture(t, cfg)

	f.coord.Activity(ActivityScroll)
	f.clock.Advance(10 * time.Second)
	f.coord.Activity(ActivityScroll)
	f.clock.Advance(25 * time.Second)
	f.coord.Activity(ActivityScroll)
	if heartbeats, _ := f.session.counts(); heartbeats != 2 {
		t.Fatalf("heartbeats should be throttled to 2, got %d", heartbeats)
	}
}

func TestCloseStopsTimersWithoutLogout(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.coord.Close()
	f.clock.Advance(10 * time.Minute)
	if _, logouts := f.session.counts(); logouts != 0 {
		t.Fatalf("close must not log out")
	}
	if f.prompter.shown != 0 {
		t.Fatalf("close must cancel warning")
	}
}

func TestEventsBeforeStartIgnored(t *testing.T) {
	clock := newFakeClock()
	session := &recordingSession{}
	coord, err := New(DefaultConfig(), session, nil, nil, WithClock(clock))
	if err != nil {
		t.Fatalf("new coordinator failed: %v", err)
	}
	coord.Activity(ActivityClick)
	clock.Advance(time.Hour)
	if heartbeats, logouts := session.counts(); heartbeats != 0 || logouts != 0 {
		t.Fatalf("unstarted coordinator should be inert")
	}
	coord.Start()
	clock.Advance(3 * time.Minute)
	if coord.State() != StateLoggedOut {
		t.Fatalf("nil prompter and navigator should be tolerated")
	}
}

func TestRealClockFires(t *testing.T) {
	done := make(chan struct{})
	RealClock().AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("real clock timer did not fire")
	}
}

func TestResetBetweenWarningAndPromptLeavesNoPrompt(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	// 提示计时器已切换状态但尚未显示提示，此时用户操作
	f.coord.mu.Lock()
	f.coord.state = StateWarningShown
	f.coord.mu.Unlock()
	f.coord.Activity(ActivityKeyPress)
	f.coord.syncPrompt()

	if f.coord.State() != StateActive {
		t.Fatalf("state want active got %s", f.coord.State())
	}
	if f.prompter.shown != f.prompter.hidden {
		t.Fatalf("prompt must not stay visible: shown=%d hidden=%d", f.prompter.shown, f.prompter.hidden)
	}
	if f.prompter.shown != 0 {
		t.Fatalf("prompt should never appear, shown=%d", f.prompter.shown)
	}

	f.clock.Advance(2 * time.Minute)
	if f.coord.State() != StateWarningShown || f.prompter.shown != 1 {
		t.Fatalf("next warning should still show the prompt, state=%s shown=%d", f.coord.State(), f.prompter.shown)
	}
}
