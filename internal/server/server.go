package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/allbin/v5serial"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DeviceManager is the part of *v5serial.Manager the API exposes
type DeviceManager interface {
	Devices(ctx context.Context) ([]v5serial.Device, error)
	ListPorts(ctx context.Context) ([]string, error)
	Connect(ctx context.Context, port string) error
	Disconnect() error
	Status() v5serial.Status
}

type ConnectRequest struct {
	Port      string `json:"port" binding:"required"`
	TimeoutMS int    `json:"timeout_ms"`
}

type APIError struct {
	Error string `json:"error"`
}

// Server is the local HTTP API a UI shell talks to
type Server struct {
	engine *gin.Engine
	dev    DeviceManager
	hub    *Hub
	log    *zap.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// local app; allow all
		return true
	},
}

// New wires the routes. Feed the manager's observer into hub.Publish and
// start hub.Run so connection events reach /ws/events.
func New(dev DeviceManager, hub *Hub, log *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	s := &Server{
		engine: engine,
		dev:    dev,
		hub:    hub,
		log:    log,
	}

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api")
	{
		api.GET("/devices", s.handleDevices)
		api.GET("/status", s.handleStatus)
		api.POST("/connect", s.handleConnect)
		api.POST("/disconnect", s.handleDisconnect)
	}

	engine.GET("/ws/events", s.handleEvents)

	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down within
// shutdownTimeout
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving API", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "timestamp": time.Now()})
}

func (s *Server) handleDevices(c *gin.Context) {
	if c.Query("detail") != "" {
		devices, err := s.dev.Devices(c.Request.Context())
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"devices": devices})
		return
	}

	ports, err := s.dev.ListPorts(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ports": ports})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.dev.Status())
}

func (s *Server) handleConnect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: err.Error()})
		return
	}
	if req.TimeoutMS < 0 {
		c.JSON(http.StatusBadRequest, APIError{Error: "timeout_ms must not be negative"})
		return
	}

	ctx := c.Request.Context()
	if req.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMS)*time.Millisecond)
		defer cancel()
	}

	if err := s.dev.Connect(ctx, req.Port); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.dev.Status())
}

func (s *Server) handleDisconnect(c *gin.Context) {
	if err := s.dev.Disconnect(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := s.hub.add(conn)

	// Keep reading until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.remove(client)
			return
		}
	}
}

// fail flattens err to {"error": msg} with a status matching its kind
func (s *Server) fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), APIError{Error: err.Error()})
}

func statusFor(err error) int {
	var (
		notFound *v5serial.DeviceNotFoundError
		enumErr  *v5serial.EnumerationError
		connErr  *v5serial.ConnectionError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, v5serial.ErrNotConnected):
		return http.StatusConflict
	case errors.As(err, &enumErr), errors.As(err, &connErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
