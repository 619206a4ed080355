// Package terminal serves the customizer over SSH with a truecolor
// half-block preview.
package terminal

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/gliderlabs/ssh"
	"github.com/muesli/termenv"

	"dressup-studio/models"
	"dressup-studio/service"
)

// Options configures the sessions a server hands out
type Options struct {
	Catalog          *service.Catalog
	Policy           service.LayerPolicy
	Compositor       *service.Compositor
	Randomizer       *service.Randomizer
	RandomizeOnStart bool
}

// SSHServer wraps the SSH listener. Every connection gets its own session.
type SSHServer struct {
	addr    string
	hostKey string
	opts    Options

	server *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr, hostKey string, opts Options) *SSHServer {
	return &SSHServer{
		addr:    addr,
		hostKey: hostKey,
		opts:    opts,
	}
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	if err := EnsureHostKey(s.hostKey); err != nil {
		return fmt.Errorf("host key: %w", err)
	}

	s.server = &ssh.Server{
		Addr:    s.addr,
		Handler: s.handleSession,
	}

	// Set host key
	if err := s.server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	log.Printf("✓ SSH server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Close stops the listener and drops open connections
func (s *SSHServer) Close() error {
	if s.server == nil {
		return nil
	}
	return s.server.Close()
}

// redrawSink turns render events into redraw requests
type redrawSink struct {
	dirty chan struct{}
}

func (s redrawSink) LayerUpdated(models.Layer)     { s.request() }
func (s redrawSink) StageRendered([]models.Layer) { s.request() }

func (s redrawSink) request() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}
	log.Printf("🔌 Terminal connected: %s", username)
	defer log.Printf("🔌 Terminal disconnected: %s", username)

	sink := redrawSink{dirty: make(chan struct{}, 1)}
	session := service.NewSession(s.opts.Catalog, sink, s.opts.Policy)
	console := NewConsole(session, s.opts.Randomizer)
	if s.opts.RandomizeOnStart {
		s.opts.Randomizer.RandomizeAll(session)
	}

	// Terminal dimensions
	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	renderer := lipgloss.NewRenderer(sess)
	renderer.SetColorProfile(termenv.TrueColor)
	st := newStyles(renderer)

	// Setup terminal
	io.WriteString(sess, EnableAltScreen())
	io.WriteString(sess, HideCursor())
	io.WriteString(sess, ClearScreen())
	defer func() {
		io.WriteString(sess, ShowCursor())
		io.WriteString(sess, DisableAltScreen())
	}()

	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, key := range ParseInput(buf[:n]) {
				if !console.Apply(key) {
					return
				}
			}
			// Paging and tab switches change no layer, redraw anyway
			sink.request()
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
			sink.request()
		}
	}()

	sink.request()
	for {
		select {
		case <-quitCh:
			return
		case <-sess.Context().Done():
			return
		case <-sink.dirty:
			termMu.Lock()
			w, h := termW, termH
			termMu.Unlock()

			frame, err := s.frame(sess, console, st, w, h)
			if err != nil {
				log.Printf("⚠️  Terminal redraw failed for %s: %v", username, err)
				continue
			}
			io.WriteString(sess, frame)
		}
	}
}

// frame renders one full screen
func (s *SSHServer) frame(sess ssh.Session, console *Console, st styles, termW, termH int) (string, error) {
	state := console.Browser().State()

	pw, ph := previewSize(termW, termH)
	preview, err := s.opts.Compositor.Compose(sess.Context(), state.Layers, service.Canvas{Width: pw, Height: ph, DPR: 1})
	if err != nil {
		return "", err
	}

	content := st.Frame(state, preview)
	return ClearScreen() + MoveTo(1, 1) + strings.ReplaceAll(content, "\n", "\r\n"), nil
}

// EnsureHostKey writes a new ed25519 host key to path unless one exists
func EnsureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("🔑 Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
