// Package runtime is the capability table scripts are evaluated
// against: Register binds every group of primitives from spec.md §4.A
// onto a gopher-lua state, one register* helper per group, all sharing
// the per-run State that holds open sessions, sockets and connections
// plus the last raised error.
package runtime

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/kpcyrd/authoscope/conf"
	"github.com/kpcyrd/authoscope/httpclient"
	"github.com/kpcyrd/authoscope/sockets"
)

const defaultTimeout = 20 * time.Second

// pendingRequest is a request built by http_request but not yet sent,
// paired with the session it was built against so http_send can fold
// cookies back into the right jar; mirrors the original's HttpRequest
// carrying its own session reference.
type pendingRequest struct {
	session *httpclient.Session
	req     *httpclient.Request
}

// State is the per-attempt scratchpad a single script run mutates:
// every open session/socket/connection handle it has acquired, plus
// the error raised by the most recent capability call that failed.
type State struct {
	Config *conf.Config

	httpClient *httpclient.Client

	mu       sync.Mutex
	handleID int
	http     map[string]*httpclient.Session
	httpReqs map[string]*pendingRequest
	sockets  map[string]*sockets.Socket
	mysql    map[string]*sql.DB

	lastErr error
}

// NewState builds a fresh State for one script evaluation. A State is
// never reused across attempts: the original's model is one throwaway
// interpreter per run, and capability handles die with it.
func NewState(cfg *conf.Config) *State {
	return &State{
		Config:     cfg,
		httpClient: httpclient.NewClient(defaultTimeout),
		http:       make(map[string]*httpclient.Session),
		httpReqs:   make(map[string]*pendingRequest),
		sockets:    make(map[string]*sockets.Socket),
		mysql:      make(map[string]*sql.DB),
	}
}

func (s *State) nextHandle(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handleID++
	return fmt.Sprintf("%s%d", prefix, s.handleID)
}

// SetLastErr records err as the most recent capability failure, so a
// script that prefers checking afterwards instead of branching on a
// return value can still observe it via last_err().
func (s *State) SetLastErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *State) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *State) ClearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

// Close releases every handle the script opened. Best-effort: close
// errors are swallowed since the attempt has already concluded.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sock := range s.sockets {
		sock.Close()
	}
	for _, db := range s.mysql {
		db.Close()
	}
}
