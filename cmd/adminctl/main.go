package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/folio-next/internal/client"
	"github.com/folio-next/internal/idle"
	"github.com/folio-next/internal/logger"
)

// terminalPrompter 在终端打印退出提示
type terminalPrompter struct{}

func (terminalPrompter) ShowWarning(remaining time.Duration) {
	fmt.Printf("\n长时间未操作，将在 %s 后自动退出。继续登录？[Y/n] ", remaining.Round(time.Second))
}

func (terminalPrompter) HideWarning() {
	fmt.Println("提示已关闭")
}

// exitNavigator 跳转登录即结束进程
type exitNavigator struct {
	once sync.Once
	done chan struct{}
}

func (n *exitNavigator) ToLogin() {
	n.once.Do(func() { close(n.done) })
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:8080", "服务地址")
	username := flag.String("user", "admin", "管理员用户名")
	heartbeatEvery := flag.Duration("heartbeat-min-interval", 0, "两次心跳最小间隔，0 为每次活动都发送")
	flag.Parse()

	logger.Init("debug", logger.Options{Level: "info"})
	stdLog := logger.StdLogger()

	password := os.Getenv("FOLIO_ADMIN_PASSWORD")
	if password == "" {
		stdLog.Fatalf("请通过 FOLIO_ADMIN_PASSWORD 提供管理员密码")
	}

	cl, err := client.New(*baseURL)
	if err != nil {
		stdLog.Fatalf("创建客户端失败: %v", err)
	}
	ctx := context.Background()
	if _, err := cl.Login(ctx, *username, password); err != nil {
		stdLog.Fatalf("登录失败: %v", err)
	}
	dashboard, err := cl.EnterDashboard(ctx)
	if err != nil {
		stdLog.Fatalf("进入后台失败: %v", err)
	}
	logger.Infow("adminctl_dashboard_entered",
		"username", dashboard.Session.Username,
		"construction_active", dashboard.Session.Construction.IsActive,
	)

	nav := &exitNavigator{done: make(chan struct{})}
	coordinator, err := idle.New(idle.Config{
		WarningDelay:         dashboard.Session.Idle.WarningDelay(),
		ForceLogoutDelay:     dashboard.Session.Idle.ForceLogoutDelay(),
		HeartbeatMinInterval: *heartbeatEvery,
	}, cl, terminalPrompter{}, nav)
	if err != nil {
		stdLog.Fatalf("空闲超时配置无效: %v", err)
	}
	coordinator.Start()
	fmt.Println("已进入后台。输入任意内容视为操作，输入 q 退出登录。")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-nav.done:
			fmt.Println("已退出登录")
			return
		case sig := <-signals:
			// 中断只停止计时，会话保留到令牌过期
			logger.Infow("adminctl_interrupted", "signal", sig.String())
			coordinator.Close()
			return
		case line, ok := <-lines:
			if !ok {
				coordinator.Close()
				return
			}
			handleLine(ctx, coordinator, cl, nav, line)
		}
	}
}

func handleLine(ctx context.Context, coordinator *idle.Coordinator, cl *client.Client, nav *exitNavigator, line string) {
	answer := strings.ToLower(line)
	if coordinator.State() == idle.StateWarningShown {
		switch answer {
		case "", "y", "yes":
			coordinator.StayLoggedIn()
		case "n", "no":
			coordinator.LogOut()
		default:
			coordinator.Dismiss()
		}
		return
	}
	if answer == "q" {
		coordinator.Close()
		if err := cl.Logout(ctx); err != nil {
			logger.Warnw("adminctl_logout_failed", "error", err)
		}
		nav.ToLogin()
		return
	}
	coordinator.Activity(idle.ActivityKeyPress)
}
