// Package ide serves the browser playground: a small REST API that runs
// Paanini code in per-client sessions, plus an embedded editor page.
//
// Sessions are the unit of persistence. A client that keeps sending the
// session id it received in the previous response talks to one long-lived
// paanini.Session, so variables and functions survive across runs exactly
// like in the terminal REPL. Idle sessions are swept after a configurable
// TTL.
package ide

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	_ "embed"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/paanini-lang/paanini"
)

//go:embed static/index.html
var editorPage []byte

// Config is the server configuration, loadable from a YAML file.
type Config struct {
	ListenAddress   string `yaml:"address,omitempty"`
	DebugMode       bool   `yaml:"debug-mode,omitempty"`
	SessionTTL      string `yaml:"session-ttl,omitempty"`
	MaxProgramBytes int    `yaml:"max-program-bytes,omitempty"`
}

// Server is the IDE backend. Create it with NewServer, optionally load a
// configuration with ParseConfig, then call Prepare before Router or
// ListenAndServe.
type Server struct {
	Config Config

	log        *logrus.Logger
	ttl        time.Duration
	maxProgram int

	mu       sync.Mutex
	sessions map[string]*clientSession

	httpSrv   *http.Server
	stopSweep chan struct{}
	stopOnce  sync.Once
}

type clientSession struct {
	sess     *paanini.Session
	lastUsed time.Time
}

// NewServer creates a server with default configuration.
func NewServer() *Server {
	return &Server{
		Config: Config{
			ListenAddress:   ":8080",
			SessionTTL:      "30m",
			MaxProgramBytes: 1 << 16,
		},
		log:       logrus.New(),
		sessions:  make(map[string]*clientSession),
		stopSweep: make(chan struct{}),
	}
}

// Log exposes the server's logger so the CLI can share it.
func (s *Server) Log() *logrus.Logger { return s.log }

// ParseConfig reads a YAML configuration file into s.Config.
func (s *Server) ParseConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration from %q: %s", path, err)
	}
	if err := yaml.Unmarshal(data, &s.Config); err != nil {
		return fmt.Errorf("failed to parse configuration %q: %s", path, err)
	}
	return nil
}

// Prepare validates the configuration. It must be called before Router.
func (s *Server) Prepare() error {
	ttl, err := time.ParseDuration(s.Config.SessionTTL)
	if err != nil {
		return fmt.Errorf("invalid session-ttl: %s", err)
	}
	if ttl <= 0 {
		return errors.New("session-ttl must be positive")
	}
	s.ttl = ttl
	s.maxProgram = s.Config.MaxProgramBytes
	if s.maxProgram <= 0 {
		s.maxProgram = 1 << 16
	}
	if s.Config.DebugMode {
		s.log.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return nil
}

// Router builds the gin engine with all routes installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(s.logging(), gin.Recovery(), cors())
	r.GET("/", s.doEditor)
	r.GET("/health", s.doHealth)
	r.GET("/version", s.doVersion)
	r.POST("/api/run", s.doRun)
	return r
}

// ListenAndServe starts the HTTP server and the idle-session sweeper and
// blocks until the server stops.
func (s *Server) ListenAndServe() error {
	go s.sweepLoop()
	s.httpSrv = &http.Server{
		Addr:    s.Config.ListenAddress,
		Handler: s.Router(),
	}
	s.log.WithField("address", s.Config.ListenAddress).Info("IDE server listening")
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the sweeper and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopSweep) })
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// ───────────────────────────── handlers ─────────────────────────────

// RunRequest is the body of POST /api/run. Session is optional; omit it to
// start a fresh session.
type RunRequest struct {
	Code    string `json:"code"`
	Session string `json:"session,omitempty"`
}

// RunResponse mirrors what the editor page consumes: captured output, zero
// or more rendered errors, and the session id to send with the next run.
type RunResponse struct {
	Output  string   `json:"output"`
	Errors  []string `json:"errors"`
	Session string   `json:"session"`
}

func (s *Server) doRun(ctx *gin.Context) {
	var req RunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %s", err)})
		return
	}
	if len(req.Code) > s.maxProgram {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("program exceeds %d bytes", s.maxProgram)})
		return
	}

	id, cs := s.session(req.Session)
	out, err := cs.sess.RunCapture(req.Code)
	resp := RunResponse{Output: out, Errors: []string{}, Session: id}
	if err != nil {
		resp.Errors = append(resp.Errors, paanini.WrapErrorWithSource(err, req.Code).Error())
	}
	s.log.WithFields(logrus.Fields{
		"session": id,
		"bytes":   len(req.Code),
		"failed":  err != nil,
	}).Debug("program executed")
	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) doHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "paanini-ide",
		"version": paanini.Version,
	})
}

func (s *Server) doVersion(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"version":    paanini.Version,
		"build-date": paanini.BuildDate,
	})
}

func (s *Server) doEditor(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", editorPage)
}

// ───────────────────────────── sessions ─────────────────────────────

// session returns the live session for id, or creates a fresh one when id is
// empty, unknown or expired.
func (s *Server) session(id string) (string, *clientSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if id != "" {
		if cs, ok := s.sessions[id]; ok && now.Sub(cs.lastUsed) <= s.ttl {
			cs.lastUsed = now
			return id, cs
		}
	}
	id = newSessionID()
	cs := &clientSession{sess: paanini.NewSession(io.Discard), lastUsed: now}
	s.sessions[id] = cs
	s.log.WithField("session", id).Debug("session created")
	return id, cs
}

func (s *Server) sweepLoop() {
	tick := time.NewTicker(s.ttl / 2)
	defer tick.Stop()
	for {
		select {
		case <-s.stopSweep:
			return
		case <-tick.C:
			s.sweep(time.Now())
		}
	}
}

func (s *Server) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	swept := 0
	for id, cs := range s.sessions {
		if now.Sub(cs.lastUsed) > s.ttl {
			delete(s.sessions, id)
			swept++
		}
	}
	if swept > 0 {
		s.log.WithFields(logrus.Fields{"swept": swept, "live": len(s.sessions)}).Debug("idle sessions removed")
	}
}

func newSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("t%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

// ───────────────────────────── middleware ─────────────────────────────

func (s *Server) logging() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		s.log.WithFields(logrus.Fields{
			"method":  ctx.Request.Method,
			"path":    ctx.Request.URL.Path,
			"status":  ctx.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request handled")
	}
}

func cors() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type")
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
