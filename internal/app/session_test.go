package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"buzzcard/internal/domain"
)

func newTestLiveSession(t *testing.T) (*LiveSession, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	session := domain.NewSession("ABC123", domain.DefaultSettings())
	live := NewLiveSession(session, NewCatalog(), clock, zerolog.Nop())
	t.Cleanup(live.Close)
	return live, clock
}

// joinPlayers joins count players and returns them in join order
func joinPlayers(t *testing.T, live *LiveSession, count int) []*domain.Player {
	t.Helper()
	players := make([]*domain.Player, 0, count)
	for i := 0; i < count; i++ {
		player, err := live.Join(fmt.Sprintf("conn-%d", i), fmt.Sprintf("Player %d", i))
		if err != nil {
			t.Fatalf("Join: %v", err)
		}
		players = append(players, player)
	}
	return players
}

func startedLiveSession(t *testing.T) (*LiveSession, *clockwork.FakeClock, []*domain.Player) {
	t.Helper()
	live, clock := newTestLiveSession(t)
	players := joinPlayers(t, live, 4)
	if err := live.Start(players[0].ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return live, clock, players
}

func liveScores(live *LiveSession) map[domain.Team]int {
	live.mu.RLock()
	defer live.mu.RUnlock()
	return live.session.ScoresCopy()
}

func scoreSum(live *LiveSession) int {
	scores := liveScores(live)
	return scores[domain.TeamA] + scores[domain.TeamB]
}

func TestLiveSession_StartArmsHiddenTimer(t *testing.T) {
	live, clock, _ := startedLiveSession(t)

	if live.Status() != domain.StatusPlaying {
		t.Fatalf("status = %s, want %s", live.Status(), domain.StatusPlaying)
	}
	if got := scoreSum(live); got != 0 {
		t.Fatalf("score sum = %d before expiry, want 0", got)
	}

	// The countdown is somewhere in [TimerMin, TimerMax); advancing past the
	// upper bound must fire it.
	clock.Advance(domain.DefaultSettings().TimerMax)
	waitFor(t, "buzzer outcome", func() bool { return scoreSum(live) == 1 })
}

func TestLiveSession_StartRequiresOwner(t *testing.T) {
	live, _ := newTestLiveSession(t)
	players := joinPlayers(t, live, 4)

	if err := live.Start(players[1].ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("non-owner start: err = %v, want %v", err, domain.ErrNotOwner)
	}
	if err := live.Start(players[0].ID); err != nil {
		t.Errorf("owner start: %v", err)
	}
}

func TestLiveSession_NextRoundCancelsSupersededTimer(t *testing.T) {
	live, clock, _ := startedLiveSession(t)

	// Advance the round boundary before the hidden countdown fires.
	if err := live.NextRound(); err != nil {
		t.Fatalf("NextRound: %v", err)
	}

	// Only the new round's countdown may fire: a stale expiry from round 1
	// must not add a second point.
	clock.Advance(domain.DefaultSettings().TimerMax)
	waitFor(t, "round 2 buzzer", func() bool { return scoreSum(live) == 1 })

	time.Sleep(10 * time.Millisecond)
	if got := scoreSum(live); got != 1 {
		t.Errorf("score sum = %d, want 1 (superseded round scored)", got)
	}
}

func TestLiveSession_StaleExpiryIsNoOp(t *testing.T) {
	live, _, _ := startedLiveSession(t)

	if err := live.NextRound(); err != nil {
		t.Fatalf("NextRound: %v", err)
	}

	// A callback armed for round 1 arriving after the round advanced.
	live.handleTimerExpiry(1)

	if got := scoreSum(live); got != 0 {
		t.Errorf("score sum = %d after stale expiry, want 0", got)
	}
}

func TestLiveSession_BonusCancelsTimer(t *testing.T) {
	live, clock, _ := startedLiveSession(t)

	// Drive both sides to completion through the public command surface.
	for i := 0; i < 20; i++ {
		live.mu.RLock()
		describer := live.session.Describers[live.session.CardHolder]
		side := live.session.CardHolder.Side()
		indices := live.session.GuessedIndices(side)
		live.mu.RUnlock()

		next := len(indices) // indices are marked in order in this test
		if err := live.MarkPhrase(describer, next); err != nil {
			t.Fatalf("MarkPhrase(%d): %v", next, err)
		}
	}

	scores := liveScores(live)
	if scores[domain.TeamA] != 1 || scores[domain.TeamB] != 1 {
		t.Fatalf("scores after bonus = %v, want one point each", scores)
	}

	// The countdown was cancelled with the bonus; advancing must not add a
	// late buzzer penalty.
	clock.Advance(domain.DefaultSettings().TimerMax)
	time.Sleep(10 * time.Millisecond)
	if got := scoreSum(live); got != 2 {
		t.Errorf("score sum = %d after bonus, want 2", got)
	}
}

func TestLiveSession_DisconnectBelowMinimumAborts(t *testing.T) {
	live, clock, _ := startedLiveSession(t)

	if !live.HandleDisconnect("conn-2") {
		t.Fatal("HandleDisconnect did not find the connection")
	}

	if live.Status() != domain.StatusFinished {
		t.Errorf("status = %s, want %s", live.Status(), domain.StatusFinished)
	}

	// The abort cancelled the countdown.
	clock.Advance(domain.DefaultSettings().TimerMax)
	time.Sleep(10 * time.Millisecond)
	if got := scoreSum(live); got != 0 {
		t.Errorf("score sum = %d after abort, want 0", got)
	}
}

func TestLiveSession_SubmitGuessRequiresPlaying(t *testing.T) {
	live, _ := newTestLiveSession(t)
	players := joinPlayers(t, live, 4)

	if err := live.SubmitGuess(players[1].ID, "Eiffel Tower"); !errors.Is(err, domain.ErrSessionNotStarted) {
		t.Errorf("err = %v, want %v", err, domain.ErrSessionNotStarted)
	}

	if err := live.Start(players[0].ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := live.SubmitGuess(players[1].ID, "Eiffel Tower"); err != nil {
		t.Errorf("SubmitGuess while playing: %v", err)
	}
}

// fakeClient records every message it is sent
type fakeClient struct {
	playerID string
	mu       sync.Mutex
	events   []*domain.Event
}

func (f *fakeClient) Send(message interface{}) error {
	event, ok := message.(*domain.Event)
	if !ok {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeClient) GetPlayerID() string { return f.playerID }
func (f *fakeClient) Close() error        { return nil }

func (f *fakeClient) received(eventType domain.EventType) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func TestLiveSession_BroadcastsRosterChanges(t *testing.T) {
	live, _ := newTestLiveSession(t)

	first, err := live.Join("conn-0", "Ada")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	client := &fakeClient{playerID: first.ID}
	live.RegisterClient(first.ID, client)

	if _, err := live.Join("conn-1", "Ben"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	waitFor(t, "roster broadcast", func() bool { return client.received(domain.EventRosterChanged) })
}

func TestLiveSession_GuessRelayTargetsDescribers(t *testing.T) {
	live, _, players := startedLiveSession(t)

	live.mu.RLock()
	describerID := live.session.Describers[domain.TeamA]
	live.mu.RUnlock()

	describerClient := &fakeClient{playerID: describerID}
	live.RegisterClient(describerID, describerClient)

	var guesser *domain.Player
	for _, p := range players {
		if p.ID != describerID {
			guesser = p
			break
		}
	}

	if err := live.SubmitGuess(guesser.ID, "Mount Everest"); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}

	waitFor(t, "targeted guess relay", func() bool { return describerClient.received(domain.EventGuessReceived) })
}
