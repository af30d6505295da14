package console

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/gliderlabs/ssh"

	"github.com/talgya/hex-isle/internal/island"
	"github.com/talgya/hex-isle/internal/session"
)

// Server prints the island report to every SSH client and hangs up.
type Server struct {
	Session *session.Session
	Addr    string
	HostKey string // Path to a PEM host key. Empty = generated per run.
}

// Start listens for SSH connections. It blocks until the listener fails.
func (s *Server) Start() error {
	server := &ssh.Server{
		Addr:    s.Addr,
		Handler: s.handleSession,
	}
	if s.HostKey != "" {
		if err := server.SetOption(ssh.HostKeyFile(s.HostKey)); err != nil {
			return fmt.Errorf("set host key: %w", err)
		}
	}

	slog.Info("SSH console starting", "addr", s.Addr, "session", s.Session.ID)
	return server.ListenAndServe()
}

func (s *Server) handleSession(sess ssh.Session) {
	slog.Info("console connected", "user", sess.User(), "remote", sess.RemoteAddr())

	var buf bytes.Buffer
	err := s.Session.Read(func(m *island.Map) error {
		return WriteReport(&buf, m)
	})
	if err == nil {
		_, err = sess.Write(buf.Bytes())
	}
	if err != nil {
		slog.Warn("console report failed", "user", sess.User(), "error", err)
		_ = sess.Exit(1)
		return
	}
	_ = sess.Exit(0)
}
