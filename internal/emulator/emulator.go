// package emulator manages the lifecycle of a local Spanner emulator process.
//
// The Manager owns exactly one child process per run. Callers are expected
// to defer Stop immediately after a successful Start so the emulator is
// released even when provisioning or the data exercise fails.
package emulator

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/shared"
	"golang.org/x/time/rate"
)

// probeInterval paces TCP readiness probes against the emulator port.
const probeInterval = 250 * time.Millisecond

// Manager starts, waits on, and stops a local emulator process.
type Manager struct {
	addr      string
	command   string
	autostart bool
	timeout   time.Duration
	logger    *log.Logger
	cmd       *exec.Cmd
}

// Opts contains configuration options for creating a Manager.
type Opts struct {
	Addr         string        // host:port the emulator listens on
	Command      string        // command line used to launch the emulator
	Autostart    bool          // false targets an externally managed emulator
	StartTimeout time.Duration // readiness deadline; defaults to 30s
	Logger       *log.Logger
}

// NewManager creates a new Manager with the provided configuration
func NewManager(opts Opts) *Manager {
	if opts.Addr == "" {
		opts.Addr = "localhost:9010"
	}
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Manager{
		addr:      opts.Addr,
		command:   opts.Command,
		autostart: opts.Autostart,
		timeout:   opts.StartTimeout,
		logger:    opts.Logger,
	}
}

// Addr returns the address the manager probes and exports to clients.
func (m *Manager) Addr() string {
	return m.addr
}

// Start launches the emulator process and blocks until it accepts TCP
// connections. With autostart disabled it only probes readiness of an
// already running emulator.
//
// Start exports SPANNER_EMULATOR_HOST (unless already set) so every
// subsequent admin and data call is directed at the emulator instead of the
// production endpoint.
func (m *Manager) Start(ctx context.Context) error {
	if os.Getenv(shared.EmulatorHostEnv) == "" {
		if err := os.Setenv(shared.EmulatorHostEnv, m.addr); err != nil {
			return fmt.Errorf("failed to set %s: %w", shared.EmulatorHostEnv, err)
		}
	}

	if m.autostart {
		parts := strings.Fields(m.command)
		if len(parts) == 0 {
			return fmt.Errorf("%w: emulator command is empty", shared.ErrInvalidConfig)
		}

		cmd := exec.Command(parts[0], parts[1:]...)
		m.logger.Info("starting emulator", "command", m.command, "addr", m.addr)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrEmulatorStart, err)
		}
		m.cmd = cmd
	}

	if err := m.WaitReady(ctx); err != nil {
		// The caller never saw a successful Start, so the child is ours to reap.
		if stopErr := m.Stop(); stopErr != nil {
			m.logger.Warn("failed to stop unready emulator", "error", stopErr)
		}
		return err
	}
	return nil
}

// WaitReady blocks until a TCP dial to the emulator address succeeds,
// probing at a fixed rate, or fails once the start timeout elapses.
func (m *Manager) WaitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(probeInterval), 1)
	var dialer net.Dialer

	for {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %s", shared.ErrEmulatorTimeout, m.addr)
		}

		conn, err := dialer.DialContext(ctx, "tcp", m.addr)
		if err == nil {
			conn.Close()
			m.logger.Info("emulator ready", "addr", m.addr)
			return nil
		}
	}
}

// Stop terminates the emulator process and reaps it. Safe to call when
// nothing was started and safe to call more than once.
func (m *Manager) Stop() error {
	if m.cmd == nil || m.cmd.Process == nil {
		return nil
	}

	if err := m.cmd.Process.Kill(); err != nil {
		m.cmd = nil
		return fmt.Errorf("failed to kill emulator process: %w", err)
	}

	// The exit error from a killed process is expected, not a failure.
	m.cmd.Wait()
	m.logger.Info("emulator stopped", "addr", m.addr)
	m.cmd = nil
	return nil
}
