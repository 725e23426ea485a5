package domain

import (
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Settings holds configurable session parameters
type Settings struct {
	MinPlayers int           `json:"minPlayers"`
	MaxRounds  int           `json:"maxRounds"`
	TimerMin   time.Duration `json:"timerMin"`
	TimerMax   time.Duration `json:"timerMax"`
}

// DefaultSettings returns the default session settings
func DefaultSettings() Settings {
	return Settings{
		MinPlayers: 4,
		MaxRounds:  8,
		TimerMin:   60 * time.Second,
		TimerMax:   120 * time.Second,
	}
}

// Session represents one game instance identified by a short code
type Session struct {
	Code          string            `json:"code"`
	Status        Status            `json:"status"`
	Players       []*Player         `json:"players"` // join order; index 0 is the owner
	Teams         map[Team][]string `json:"teams"`
	CurrentRound  int               `json:"currentRound"`
	CardHolder    Team              `json:"cardHolder,omitempty"`
	Describers    map[Team]string   `json:"describingPlayers,omitempty"` // fixed per round
	CurrentCard   *Card             `json:"currentCard,omitempty"`
	GuessedBlue   map[int]struct{}  `json:"-"`
	GuessedOrange map[int]struct{}  `json:"-"`
	Scores        map[Team]int      `json:"scores"`
	Settings      Settings          `json:"settings"`
	CreatedAt     time.Time         `json:"createdAt"`

	// roundResolved is set once the active round has produced an outcome
	// (buzzer or bonus) and cleared when the next round starts. A resolved
	// round rejects further marks and absorbs stale timer expiries.
	roundResolved bool

	// aborted is set when the session finishes by dropping below the
	// minimum headcount rather than by playing out its rounds. An aborted
	// session never reports a score-based winner.
	aborted bool
}

// FinalResult is the outcome of a completed session
type FinalResult struct {
	Winner  Team         `json:"winner,omitempty"`
	Tie     bool         `json:"tie"`
	Aborted bool         `json:"aborted"`
	Scores  map[Team]int `json:"scores"`
	Round   int          `json:"round"`
}

// TimerOutcome is the result of the hidden timer ending a round
type TimerOutcome struct {
	LosingTeam  Team
	WinningTeam Team
	CardHolder  Team
	Final       *FinalResult // non-nil when the expiry resolved the last round
}

// NewSession creates a new session with the given code
func NewSession(code string, settings Settings) *Session {
	return &Session{
		Code:          code,
		Status:        StatusWaiting,
		Players:       make([]*Player, 0),
		Teams:         map[Team][]string{TeamA: {}, TeamB: {}},
		GuessedBlue:   make(map[int]struct{}),
		GuessedOrange: make(map[int]struct{}),
		Scores:        map[Team]int{TeamA: 0, TeamB: 0},
		Settings:      settings,
		CreatedAt:     time.Now(),
	}
}

// AddPlayer adds a player to the session, assigning them to whichever team
// currently has fewer members. Ties resolve to team A.
func (s *Session) AddPlayer(playerID, connID, name string) (*Player, error) {
	if s.Status != StatusWaiting {
		return nil, ErrSessionStarted
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	team := TeamA
	if len(s.Teams[TeamB]) < len(s.Teams[TeamA]) {
		team = TeamB
	}

	player := NewPlayer(playerID, connID, name, team)
	s.Players = append(s.Players, player)
	s.Teams[team] = append(s.Teams[team], player.ID)

	return player, nil
}

// GetPlayer returns a player by ID
func (s *Session) GetPlayer(playerID string) (*Player, error) {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// PlayerByConn returns the player bound to the given connection handle
func (s *Session) PlayerByConn(connID string) (*Player, bool) {
	for _, p := range s.Players {
		if p.ConnID == connID {
			return p, true
		}
	}
	return nil, false
}

// CanStart checks if the session has enough players to start
func (s *Session) CanStart() bool {
	return s.Status == StatusWaiting && len(s.Players) >= s.Settings.MinPlayers
}

// Start begins the session and its first round with the given card
func (s *Session) Start(card *Card) error {
	switch s.Status {
	case StatusPlaying:
		return ErrSessionStarted
	case StatusFinished:
		return ErrSessionOver
	}

	if len(s.Players) < s.Settings.MinPlayers {
		return ErrNotEnoughPlayers
	}

	s.Status = StatusPlaying
	return s.startRound(card)
}

// startRound advances the round counter, resets guess progress, picks the
// starting card holder and one describing player per team, and installs the
// freshly drawn card.
func (s *Session) startRound(card *Card) error {
	if len(s.Teams[TeamA]) == 0 || len(s.Teams[TeamB]) == 0 {
		return ErrEmptyTeam
	}

	s.CurrentRound++
	s.GuessedBlue = make(map[int]struct{})
	s.GuessedOrange = make(map[int]struct{})
	s.roundResolved = false

	s.CardHolder = TeamA
	if rand.Intn(2) == 1 {
		s.CardHolder = TeamB
	}

	s.Describers = map[Team]string{
		TeamA: s.Teams[TeamA][rand.Intn(len(s.Teams[TeamA]))],
		TeamB: s.Teams[TeamB][rand.Intn(len(s.Teams[TeamB]))],
	}

	s.CurrentCard = card

	return nil
}

// MarkPhraseCorrect records a correctly guessed phrase on the side in play.
// Only the card holder's describing player may mark phrases. Returns true
// when the mark completed both sides, which awards a point to each team and
// leaves the card holder unchanged; otherwise the card passes to the other
// team and guess progress on both sides persists.
func (s *Session) MarkPhraseCorrect(playerID string, phraseIndex int) (bool, error) {
	switch s.Status {
	case StatusWaiting:
		return false, ErrSessionNotStarted
	case StatusFinished:
		return false, ErrSessionOver
	}

	if s.roundResolved {
		return false, ErrRoundOver
	}

	if _, err := s.GetPlayer(playerID); err != nil {
		return false, err
	}
	if s.Describers[s.CardHolder] != playerID {
		return false, ErrNotDescriber
	}

	side := s.CardHolder.Side()
	phrases := s.CurrentCard.Phrases(side)
	if phraseIndex < 0 || phraseIndex >= len(phrases) {
		return false, ErrPhraseOutOfRange
	}

	guessed := s.guessedSet(side)
	if _, ok := guessed[phraseIndex]; ok {
		return false, ErrPhraseGuessed
	}
	guessed[phraseIndex] = struct{}{}

	allBlue := len(s.GuessedBlue) == len(s.CurrentCard.BlueSide)
	allOrange := len(s.GuessedOrange) == len(s.CurrentCard.OrangeSide)
	if allBlue && allOrange {
		// Both sides cleared before the buzzer: a point for each team,
		// card holder unchanged, round paused until the next one starts.
		s.Scores[TeamA]++
		s.Scores[TeamB]++
		s.roundResolved = true
		return true, nil
	}

	s.CardHolder = s.CardHolder.Opponent()
	return false, nil
}

// ExpireTimer applies the hidden timer outcome: the team holding the card
// loses the round and the opposing team scores. A stale expiry on a session
// that is no longer playing, or on a round already resolved, is a no-op and
// returns false.
func (s *Session) ExpireTimer() (*TimerOutcome, bool) {
	if s.Status != StatusPlaying || s.roundResolved {
		return nil, false
	}

	losing := s.CardHolder
	winning := losing.Opponent()
	s.Scores[winning]++
	s.roundResolved = true

	outcome := &TimerOutcome{
		LosingTeam:  losing,
		WinningTeam: winning,
		CardHolder:  losing,
	}

	if s.CurrentRound >= s.Settings.MaxRounds {
		outcome.Final = s.finish()
	}

	return outcome, true
}

// NextRound starts the next round with the given card. If the round cap has
// been reached the session finishes instead and the final result is returned.
func (s *Session) NextRound(card *Card) (*FinalResult, error) {
	switch s.Status {
	case StatusWaiting:
		return nil, ErrSessionNotStarted
	case StatusFinished:
		return s.finalResult(), nil
	}

	if s.CurrentRound >= s.Settings.MaxRounds {
		return s.finish(), nil
	}

	if err := s.startRound(card); err != nil {
		return nil, err
	}
	return nil, nil
}

// RemovePlayer removes the player bound to the given connection handle from
// the roster and their team. When a playing session drops below the minimum
// headcount it is aborted. Returns the removed player and whether the removal
// aborted the session.
func (s *Session) RemovePlayer(connID string) (*Player, bool, bool) {
	player, ok := s.PlayerByConn(connID)
	if !ok {
		return nil, false, false
	}

	for i, p := range s.Players {
		if p.ID == player.ID {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			break
		}
	}
	for i, id := range s.Teams[player.Team] {
		if id == player.ID {
			s.Teams[player.Team] = append(s.Teams[player.Team][:i], s.Teams[player.Team][i+1:]...)
			break
		}
	}

	aborted := false
	if s.Status == StatusPlaying && len(s.Players) < s.Settings.MinPlayers {
		s.Status = StatusFinished
		s.roundResolved = true
		s.aborted = true
		aborted = true
	}

	return player, aborted, true
}

// finish transitions the session to finished and computes the final result
func (s *Session) finish() *FinalResult {
	s.Status = StatusFinished
	s.roundResolved = true
	return s.finalResult()
}

// finalResult computes the winner by score comparison. Equal scores tie.
// A session that ended by abort reports the abort instead of a winner.
func (s *Session) finalResult() *FinalResult {
	if s.aborted {
		return s.AbortResult()
	}

	result := &FinalResult{
		Scores: s.scoresCopy(),
		Round:  s.CurrentRound,
	}

	switch {
	case s.Scores[TeamA] > s.Scores[TeamB]:
		result.Winner = TeamA
	case s.Scores[TeamB] > s.Scores[TeamA]:
		result.Winner = TeamB
	default:
		result.Tie = true
	}

	return result
}

// AbortResult is the final result of an aborted session: no winner is computed
func (s *Session) AbortResult() *FinalResult {
	return &FinalResult{
		Aborted: true,
		Scores:  s.scoresCopy(),
		Round:   s.CurrentRound,
	}
}

// RosterState returns the current roster for broadcasting
func (s *Session) RosterState() *RosterPayload {
	teams := map[Team][]string{
		TeamA: append([]string(nil), s.Teams[TeamA]...),
		TeamB: append([]string(nil), s.Teams[TeamB]...),
	}
	return &RosterPayload{
		Players: append([]*Player(nil), s.Players...),
		Teams:   teams,
	}
}

// RoundState returns the active round for broadcasting
func (s *Session) RoundState() *RoundStartedPayload {
	return &RoundStartedPayload{
		Round:             s.CurrentRound,
		CardHolder:        s.CardHolder,
		DescribingPlayers: []string{s.Describers[TeamA], s.Describers[TeamB]},
		Card:              s.CurrentCard,
		GuessedBlue:       s.GuessedIndices(SideBlue),
		GuessedOrange:     s.GuessedIndices(SideOrange),
		Scores:            s.scoresCopy(),
	}
}

// GuessedIndices returns the sorted guessed phrase indices for a side
func (s *Session) GuessedIndices(side CardSide) []int {
	guessed := s.guessedSet(side)
	indices := make([]int, 0, len(guessed))
	for idx := range guessed {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// ScoresCopy returns a copy of the current scores
func (s *Session) ScoresCopy() map[Team]int {
	return s.scoresCopy()
}

func (s *Session) scoresCopy() map[Team]int {
	return map[Team]int{TeamA: s.Scores[TeamA], TeamB: s.Scores[TeamB]}
}

func (s *Session) guessedSet(side CardSide) map[int]struct{} {
	if side == SideBlue {
		return s.GuessedBlue
	}
	return s.GuessedOrange
}
