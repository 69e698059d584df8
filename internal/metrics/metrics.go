package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 会话生命周期相关指标，nil 接收者上的方法均为空操作
type Metrics struct {
	registry *prometheus.Registry

	GuardDecisions      *prometheus.CounterVec
	LoginAttempts       *prometheus.CounterVec
	Heartbeats          *prometheus.CounterVec
	SessionTerminations *prometheus.CounterVec
	ConstructionHealed  prometheus.Counter
	AssetCleanups       *prometheus.CounterVec
}

// New 在独立注册表上创建指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		GuardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_session_guard_decisions_total",
			Help: "Admin route guard decisions by outcome",
		}, []string{"decision"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_admin_login_attempts_total",
			Help: "Admin login attempts by result",
		}, []string{"result"}),
		Heartbeats: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_construction_heartbeats_total",
			Help: "Construction mode heartbeats by result",
		}, []string{"result"}),
		SessionTerminations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_session_terminations_total",
			Help: "Session terminations by deactivate result",
		}, []string{"result"}),
		ConstructionHealed: factory.NewCounter(prometheus.CounterOpts{
			Name: "folio_construction_self_heal_total",
			Help: "Stale construction states corrected on read",
		}),
		AssetCleanups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_asset_cleanups_total",
			Help: "Replaced upload files removed by the worker",
		}, []string{"result"}),
	}
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer 返回底层注册表
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.DefaultGatherer
	}
	return m.registry
}

// ObserveGuardDecision 记录守卫判定
func (m *Metrics) ObserveGuardDecision(decision string) {
	if m == nil {
		return
	}
	m.GuardDecisions.WithLabelValues(decision).Inc()
}

// ObserveLogin 记录登录结果
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// ObserveHeartbeat 记录心跳结果
func (m *Metrics) ObserveHeartbeat(err error) {
	if m == nil {
		return
	}
	m.Heartbeats.WithLabelValues(resultLabel(err)).Inc()
}

// ObserveTermination 记录会话终止
func (m *Metrics) ObserveTermination(err error) {
	if m == nil {
		return
	}
	m.SessionTerminations.WithLabelValues(resultLabel(err)).Inc()
}

// ObserveSelfHeal 记录施工状态自愈
func (m *Metrics) ObserveSelfHeal() {
	if m == nil {
		return
	}
	m.ConstructionHealed.Inc()
}

// ObserveAssetCleanup 记录旧文件清理
func (m *Metrics) ObserveAssetCleanup(err error) {
	if m == nil {
		return
	}
	m.AssetCleanups.WithLabelValues(resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
