package idle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/logger"

	"go.uber.org/zap"
)

// State 协调器状态
type State int

const (
	// StateActive 初始状态，计时中
	StateActive State = iota
	// StateWarningShown 已弹出即将退出的提示，强制退出计时仍在进行
	StateWarningShown
	// StateLoggedOut 终态，当前实例不再响应任何事件
	StateLoggedOut
)

// String 状态名
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateWarningShown:
		return "warning_shown"
	case StateLoggedOut:
		return "logged_out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ActivityKind 用户活动类型
type ActivityKind string

// 可重置计时的活动类型
const (
	ActivityPointerMove ActivityKind = "pointer_move"
	ActivityKeyPress    ActivityKind = "key_press"
	ActivityClick       ActivityKind = "click"
	ActivityScroll      ActivityKind = "scroll"
	ActivityTouch       ActivityKind = "touch"
)

func (k ActivityKind) qualifies() bool {
	switch k {
	case ActivityPointerMove, ActivityKeyPress, ActivityClick, ActivityScroll, ActivityTouch:
		return true
	default:
		return false
	}
}

// Session 服务端会话操作
type Session interface {
	Heartbeat(ctx context.Context) error
	Logout(ctx context.Context) error
}

// Prompter 显示或隐藏即将退出的提示
type Prompter interface {
	ShowWarning(remaining time.Duration)
	HideWarning()
}

// Navigator 退出后跳转登录入口
type Navigator interface {
	ToLogin()
}

// Config 空闲超时参数
type Config struct {
	WarningDelay     time.Duration
	ForceLogoutDelay time.Duration
	// HeartbeatMinInterval 大于 0 时两次心跳之间至少间隔该时长
	HeartbeatMinInterval time.Duration
}

// DefaultConfig 2 分钟提示，3 分钟强制退出
func DefaultConfig() Config {
	return Config{
		WarningDelay:     constants.IdleWarningDelay,
		ForceLogoutDelay: constants.IdleForceLogoutDelay,
	}
}

// ErrInvalidConfig 配置不满足 0 < warning < force
var ErrInvalidConfig = errors.New("invalid idle config")

// Validate 校验延迟配置
func (c Config) Validate() error {
	if c.WarningDelay <= 0 || c.ForceLogoutDelay <= 0 {
		return fmt.Errorf("%w: delays must be positive", ErrInvalidConfig)
	}
	if c.ForceLogoutDelay <= c.WarningDelay {
		return fmt.Errorf("%w: force logout delay %s must exceed warning delay %s", ErrInvalidConfig, c.ForceLogoutDelay, c.WarningDelay)
	}
	if c.HeartbeatMinInterval < 0 {
		return fmt.Errorf("%w: heartbeat interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Option 协调器可选项
type Option func(*Coordinator)

// WithClock 替换时间源
func WithClock(clock Clock) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger 替换日志实例
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// Coordinator 管理端空闲超时协调器。
// 两个计时器相互独立：提示计时器不会取消强制退出计时器。
// 计时器回调在各自 goroutine 上执行，通过 generation 丢弃已被重置的旧回调；
// 对外部协作者的调用都在锁外进行；提示的显示与隐藏由 promptMu 串行化。
type Coordinator struct {
	mu         sync.Mutex
	promptMu   sync.Mutex
	shown      bool
	cfg        Config
	clock      Clock
	session    Session
	prompter   Prompter
	navigator  Navigator
	log        *zap.SugaredLogger
	state      State
	started    bool
	closed     bool
	generation uint64
	warnTimer  Timer
	forceTimer Timer

	lastHeartbeat time.Time
}

// New 创建协调器，prompter 与 navigator 可为空
func New(cfg Config, session Session, prompter Prompter, navigator Navigator, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("idle session is nil")
	}
	c := &Coordinator{
		cfg:       cfg,
		clock:     RealClock(),
		session:   session,
		prompter:  prompter,
		navigator: navigator,
		log:       logger.S(),
		state:     StateActive,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start 开始计时，重复调用无效
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed || c.state == StateLoggedOut {
		return
	}
	c.started = true
	c.armLocked()
}

// State 当前状态
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activity 上报用户活动，非法类型忽略
func (c *Coordinator) Activity(kind ActivityKind) {
	if !kind.qualifies() {
		return
	}
	c.reset(string(kind))
}

// StayLoggedIn 用户在提示中选择继续
func (c *Coordinator) StayLoggedIn() {
	c.reset("stay_logged_in")
}

// Dismiss 以其他方式关闭提示，等同于继续
func (c *Coordinator) Dismiss() {
	c.reset("dismiss")
}

// LogOut 用户在提示中选择退出，仅在提示显示时生效
func (c *Coordinator) LogOut() {
	c.mu.Lock()
	if c.state != StateWarningShown || c.closed {
		c.mu.Unlock()
		return
	}
	previous := c.terminateLocked()
	c.mu.Unlock()
	c.finishLogout(previous, "user")
}

// Close 页面卸载：停止计时但不退出登录
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
	c.stopLocked()
}

func (c *Coordinator) reset(reason string) {
	c.mu.Lock()
	if !c.started || c.closed || c.state == StateLoggedOut {
		c.mu.Unlock()
		return
	}
	wasWarning := c.state == StateWarningShown
	c.state = StateActive
	c.armLocked()
	now := c.clock.Now()
	sendHeartbeat := c.cfg.HeartbeatMinInterval <= 0 ||
		c.lastHeartbeat.IsZero() ||
		now.Sub(c.lastHeartbeat) >= c.cfg.HeartbeatMinInterval
	if sendHeartbeat {
		c.lastHeartbeat = now
	}
	c.mu.Unlock()

	if wasWarning {
		c.syncPrompt()
	}
	if !sendHeartbeat {
		return
	}
	if err := c.session.Heartbeat(context.Background()); err != nil {
		c.log.Warnw("idle_heartbeat_failed", "reason", reason, "error", err)
	}
}

// armLocked 停止旧计时器并从零重新开始两个计时
func (c *Coordinator) armLocked() {
	c.stopLocked()
	c.generation++
	gen := c.generation
	c.warnTimer = c.clock.AfterFunc(c.cfg.WarningDelay, func() { c.onWarning(gen) })
	c.forceTimer = c.clock.AfterFunc(c.cfg.ForceLogoutDelay, func() { c.onForceLogout(gen) })
}

func (c *Coordinator) stopLocked() {
	if c.warnTimer != nil {
		c.warnTimer.Stop()
		c.warnTimer = nil
	}
	if c.forceTimer != nil {
		c.forceTimer.Stop()
		c.forceTimer = nil
	}
}

func (c *Coordinator) onWarning(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.closed || c.state != StateActive {
		c.mu.Unlock()
		return
	}
	c.state = StateWarningShown
	c.warnTimer = nil
	c.mu.Unlock()

	c.syncPrompt()
}

// syncPrompt 按当前状态显示或隐藏提示。
// 在 promptMu 内读取状态，回调与重置交错时最终结果仍与状态一致。
func (c *Coordinator) syncPrompt() {
	if c.prompter == nil {
		return
	}
	c.promptMu.Lock()
	defer c.promptMu.Unlock()

	c.mu.Lock()
	want := c.state == StateWarningShown && !c.closed
	remaining := c.cfg.ForceLogoutDelay - c.cfg.WarningDelay
	c.mu.Unlock()

	switch {
	case want && !c.shown:
		c.prompter.ShowWarning(remaining)
	case !want && c.shown:
		c.prompter.HideWarning()
	default:
		return
	}
	c.shown = want
}

func (c *Coordinator) onForceLogout(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.closed || c.state == StateLoggedOut {
		c.mu.Unlock()
		return
	}
	previous := c.terminateLocked()
	c.mu.Unlock()
	c.finishLogout(previous, "timeout")
}

// terminateLocked 进入终态并停止所有计时器，返回之前的状态
func (c *Coordinator) terminateLocked() State {
	previous := c.state
	c.state = StateLoggedOut
	c.generation++
	c.stopLocked()
	return previous
}

func (c *Coordinator) finishLogout(previous State, reason string) {
	if previous == StateWarningShown {
		c.syncPrompt()
	}
	if err := c.session.Logout(context.Background()); err != nil {
		c.log.Warnw("idle_logout_failed", "reason", reason, "error", err)
	}
	c.log.Infow("idle_logged_out", "reason", reason)
	if c.navigator != nil {
		c.navigator.ToLogin()
	}
}
