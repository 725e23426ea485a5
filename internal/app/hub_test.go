package app

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"buzzcard/internal/domain"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(domain.DefaultSettings(), 6, clockwork.NewFakeClock(), zerolog.Nop())
	t.Cleanup(hub.Close)
	return hub
}

func TestHub_CreateSession(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateSession()
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	code := session.Code()
	if len(code) != 6 {
		t.Errorf("code length = %d, want 6", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(CodeChars, r) {
			t.Errorf("code %q contains %q, outside the allowed alphabet", code, r)
		}
	}

	got, err := hub.GetSession(code)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != session {
		t.Error("GetSession returned a different session")
	}
	if got.Status() != domain.StatusWaiting {
		t.Errorf("new session status = %s, want %s", got.Status(), domain.StatusWaiting)
	}
}

func TestHub_GenerateCodeStaysInAlphabet(t *testing.T) {
	hub := newTestHub(t)

	for i := 0; i < 500; i++ {
		code, err := hub.generateCode()
		if err != nil {
			t.Fatalf("generateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(CodeChars, r) {
				t.Fatalf("code %q contains %q, outside the allowed alphabet", code, r)
			}
		}
	}
}

func TestHub_CodesAreUnique(t *testing.T) {
	hub := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := hub.CreateSession()
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if seen[session.Code()] {
			t.Fatalf("duplicate session code %q", session.Code())
		}
		seen[session.Code()] = true
	}
}

func TestHub_GetSession_NotFound(t *testing.T) {
	hub := newTestHub(t)

	if _, err := hub.GetSession("NOPE42"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("err = %v, want %v", err, domain.ErrSessionNotFound)
	}
}

func TestHub_DeleteSession(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateSession()
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	hub.DeleteSession(session.Code())

	if _, err := hub.GetSession(session.Code()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("err after delete = %v, want %v", err, domain.ErrSessionNotFound)
	}
	if hub.SessionCount() != 0 {
		t.Errorf("session count = %d, want 0", hub.SessionCount())
	}
}

func TestHub_HandleDisconnect_ScansSessions(t *testing.T) {
	hub := newTestHub(t)

	for i := 0; i < 3; i++ {
		session, err := hub.CreateSession()
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if _, err := session.Join(fmt.Sprintf("conn-%d", i), fmt.Sprintf("Player %d", i)); err != nil {
			t.Fatalf("Join: %v", err)
		}
	}

	matched := hub.HandleDisconnect("conn-1")
	if matched == nil {
		t.Fatal("HandleDisconnect did not find the player's session")
	}
	if matched.PlayerCount() != 0 {
		t.Errorf("player count after disconnect = %d, want 0", matched.PlayerCount())
	}

	if hub.HandleDisconnect("conn-unknown") != nil {
		t.Error("HandleDisconnect matched an unknown connection")
	}
}

func TestHub_Counts(t *testing.T) {
	hub := newTestHub(t)

	first, _ := hub.CreateSession()
	second, _ := hub.CreateSession()

	first.Join("conn-a", "Ada")
	first.Join("conn-b", "Ben")
	second.Join("conn-c", "Cleo")

	if got := hub.SessionCount(); got != 2 {
		t.Errorf("SessionCount = %d, want 2", got)
	}
	if got := hub.TotalPlayerCount(); got != 3 {
		t.Errorf("TotalPlayerCount = %d, want 3", got)
	}
}
