package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/folio-next/internal/logger"
)

const (
	httpReadHeaderTimeout = 10 * time.Second
	httpIdleTimeout       = 2 * time.Minute
)

// HTTPService HTTP 服务封装
type HTTPService struct {
	server   *http.Server
	listener net.Listener
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: httpReadHeaderTimeout,
			IdleTimeout:       httpIdleTimeout,
			ErrorLog:          logger.StdLogger(),
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Listen 提前绑定端口，便于在启动前发现端口冲突。Start 未调用 Listen 时自动绑定。
func (s *HTTPService) Listen() error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Addr 实际监听地址，未绑定时返回配置地址
func (s *HTTPService) Addr() string {
	if s == nil || s.server == nil {
		return ""
	}
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Start 启动服务
func (s *HTTPService) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	logger.Infow("http_listening", "addr", s.Addr())
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止服务
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
