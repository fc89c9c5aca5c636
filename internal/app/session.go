package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"placeswipe/internal/domain"
	"placeswipe/internal/metrics"
	"placeswipe/internal/storage"
)

// Status lines shown next to the setup form
const (
	StatusRequestingLocation = "Requesting location..."
	StatusLocationSet        = "Location set ✔"
	StatusLocationFailed     = "Location denied or unavailable."
	StatusOriginRequired     = "Set your location first (type or click 'Use my location')."
	StatusFindingPlaces      = "Finding restaurants…"
	StatusNoPlaces           = "No restaurants found in that radius."
	StatusLookupFailed       = "Error fetching places (try again)."
	StatusNoImportRows       = "No places found in that file."
)

// Store persists the setup form between runs
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Locator resolves the device's current position
type Locator interface {
	CurrentPosition(ctx context.Context) (domain.Coordinate, error)
}

// PlaceSource finds named restaurants near an origin, nearest first
type PlaceSource interface {
	FindNearby(ctx context.Context, origin domain.Coordinate, radiusMi float64) ([]domain.Candidate, error)
}

// Clipboard receives copied likes
type Clipboard interface {
	WriteAll(text string) error
}

// ClientConnection represents a connected state-feed client
type ClientConnection interface {
	Send(message interface{}) error
	GetClientID() string
	Close() error
}

// Deps are the collaborators a Session talks to. Store and Clipboard may be
// nil; Shuffler and Logger get defaults.
type Deps struct {
	Store     Store
	Locator   Locator
	Places    PlaceSource
	Clipboard Clipboard
	Shuffler  domain.Shuffler
	Logger    *slog.Logger
}

// SettingsPatch updates any subset of the setup form
type SettingsPatch struct {
	ListText *string `json:"listText,omitempty"`
	Count    *string `json:"count,omitempty"`
	Radius   *string `json:"radius,omitempty"`
	Lat      *string `json:"lat,omitempty"`
	Lng      *string `json:"lng,omitempty"`
}

// Session owns the setup form, the origin and the current round, and pushes
// every change to connected clients
type Session struct {
	id string

	mu         sync.RWMutex
	settings   domain.Settings
	origin     domain.Origin
	phase      domain.Phase
	round      *domain.Round
	status     *domain.StatusPayload
	lookupBusy bool
	locating   bool

	store     Store
	locator   Locator
	places    PlaceSource
	clipboard Clipboard
	shuffler  domain.Shuffler

	clients   map[string]ClientConnection // clientID -> client
	clientsMu sync.RWMutex
	logger    *slog.Logger

	// Event channel for broadcasting
	events chan *domain.SessionEvent
	done   chan struct{}
}

// NewSession creates a session, restores saved settings from the store and
// starts the event broadcaster
func NewSession(ctx context.Context, deps Deps) *Session {
	if deps.Shuffler == nil {
		deps.Shuffler = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Session{
		id: uuid.New().String(),
		settings: domain.Settings{
			Count:  strconv.Itoa(domain.DefaultRoundSize),
			Radius: formatNumber(domain.DefaultRadiusMi),
		},
		phase:     domain.PhaseSetup,
		store:     deps.Store,
		locator:   deps.Locator,
		places:    deps.Places,
		clipboard: deps.Clipboard,
		shuffler:  deps.Shuffler,
		clients:   make(map[string]ClientConnection),
		logger:    deps.Logger,
		events:    make(chan *domain.SessionEvent, 100),
		done:      make(chan struct{}),
	}

	s.restore(ctx)

	go s.eventLoop()

	return s
}

// ID returns the session ID
func (s *Session) ID() string {
	return s.id
}

// GetPhase returns the current phase
func (s *Session) GetPhase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// RegisterClient registers a state-feed client
func (s *Session) RegisterClient(clientID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[clientID] = client
	metrics.FeedClients.Inc()
}

// UnregisterClient removes a state-feed client
func (s *Session) UnregisterClient(clientID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[clientID]; ok {
		delete(s.clients, clientID)
		metrics.FeedClients.Dec()
	}
}

// ClientCount returns the number of connected state-feed clients
func (s *Session) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Snapshot returns the full state for rendering
func (s *Session) Snapshot() *domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// UpdateSettings applies edits to the setup form and saves them
func (s *Session) UpdateSettings(ctx context.Context, patch SettingsPatch) *domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.ListText != nil {
		s.settings.ListText = *patch.ListText
	}
	if patch.Count != nil {
		s.settings.Count = *patch.Count
	}
	if patch.Radius != nil {
		s.settings.Radius = *patch.Radius
	}
	if patch.Lat != nil {
		s.settings.Lat = *patch.Lat
	}
	if patch.Lng != nil {
		s.settings.Lng = *patch.Lng
	}

	s.persistLocked(ctx)
	s.queueEvent(domain.EventSettingsUpdated)

	return s.snapshotLocked()
}

// LoadSample replaces the list with the built-in sample
func (s *Session) LoadSample(ctx context.Context) *domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.ListText = SampleList
	s.persistLocked(ctx)
	s.queueEvent(domain.EventListUpdated)

	return s.snapshotLocked()
}

// ImportCandidates replaces the list with imported candidates and returns
// how many were loaded
func (s *Session) ImportCandidates(ctx context.Context, candidates []domain.Candidate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(candidates) == 0 {
		s.setStatusLocked(StatusNoImportRows, true)
		return 0, domain.ErrNoPlacesFound
	}

	s.settings.ListText = domain.FormatList(candidates)
	s.setStatusLocked(fmt.Sprintf("Imported %d places ✔", len(candidates)), false)
	s.persistLocked(ctx)
	s.queueEvent(domain.EventListUpdated)

	s.logger.Info("list imported", "sessionID", s.id, "count", len(candidates))

	return len(candidates), nil
}

// FindNearby replaces the list with restaurants near the lat/lng fields,
// within the radius field. The list is untouched on any failure.
func (s *Session) FindNearby(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.lookupBusy {
		s.mu.Unlock()
		return 0, domain.ErrLookupInProgress
	}

	lat, latOK := parseField(s.settings.Lat)
	lng, lngOK := parseField(s.settings.Lng)
	if !latOK || !lngOK {
		s.setStatusLocked(StatusOriginRequired, true)
		s.mu.Unlock()
		return 0, domain.ErrOriginRequired
	}
	origin := domain.Coordinate{Lat: lat, Lng: lng}
	radiusMi := domain.ParseLookupRadius(s.settings.Radius)

	s.lookupBusy = true
	s.setStatusLocked(StatusFindingPlaces, false)
	s.mu.Unlock()

	candidates, err := s.findPlaces(ctx, origin, radiusMi)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupBusy = false

	if err != nil {
		s.logger.Warn("nearby lookup failed", "sessionID", s.id, "error", err)
		s.setStatusLocked(StatusLookupFailed, true)
		return 0, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	if len(candidates) == 0 {
		s.setStatusLocked(StatusNoPlaces, true)
		return 0, domain.ErrNoPlacesFound
	}

	s.settings.ListText = domain.FormatList(candidates)
	s.setStatusLocked(fmt.Sprintf("Loaded %d nearby spots ✔", len(candidates)), false)
	s.persistLocked(ctx)
	s.queueEvent(domain.EventListUpdated)

	return len(candidates), nil
}

func (s *Session) findPlaces(ctx context.Context, origin domain.Coordinate, radiusMi float64) ([]domain.Candidate, error) {
	if s.places == nil {
		return nil, errors.New("no place source configured")
	}
	return s.places.FindNearby(ctx, origin, radiusMi)
}

// UseDeviceLocation sets the origin and the lat/lng fields from the locator.
// The saved origin is untouched on failure.
func (s *Session) UseDeviceLocation(ctx context.Context) (domain.Coordinate, error) {
	s.mu.Lock()
	if s.locating {
		s.mu.Unlock()
		return domain.Coordinate{}, domain.ErrLookupInProgress
	}
	s.locating = true
	s.setStatusLocked(StatusRequestingLocation, false)
	s.mu.Unlock()

	coord, err := s.currentPosition(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locating = false

	if err != nil {
		s.setStatusLocked(StatusLocationFailed, true)
		if !errors.Is(err, domain.ErrLocationUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
		}
		return domain.Coordinate{}, err
	}

	s.origin = domain.OriginAt(coord.Lat, coord.Lng)
	s.settings.Lat = strconv.FormatFloat(coord.Lat, 'f', 5, 64)
	s.settings.Lng = strconv.FormatFloat(coord.Lng, 'f', 5, 64)
	s.setStatusLocked(StatusLocationSet, false)
	s.persistLocked(ctx)
	s.queueEvent(domain.EventOriginUpdated)

	return coord, nil
}

func (s *Session) currentPosition(ctx context.Context) (domain.Coordinate, error) {
	if s.locator == nil {
		return domain.Coordinate{}, domain.ErrLocationUnavailable
	}
	return s.locator.CurrentPosition(ctx)
}

// StartRound builds a new round from the list and settings. A round that is
// already running or finished is discarded first.
func (s *Session) StartRound(ctx context.Context) (*domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseSetup {
		if err := s.transitionLocked(domain.PhaseSetup); err != nil {
			return nil, err
		}
	}

	// Each half of the origin follows its field only when the field holds a number
	if lat, ok := parseField(s.settings.Lat); ok {
		s.origin.Lat = &lat
	}
	if lng, ok := parseField(s.settings.Lng); ok {
		s.origin.Lng = &lng
	}

	pool := domain.ParseList(s.settings.ListText)
	round := domain.NewRound(
		uuid.New().String(),
		pool,
		s.origin.Coordinate(),
		domain.ParseRoundSize(s.settings.Count),
		domain.ParseRadius(s.settings.Radius),
		s.shuffler,
	)

	if err := s.transitionLocked(round.Phase); err != nil {
		return nil, err
	}
	s.round = round
	s.status = nil

	poolLabel := "ok"
	if len(round.Candidates) == 0 {
		poolLabel = "empty"
	}
	metrics.RoundsStarted.WithLabelValues(poolLabel).Inc()

	s.logger.Info("round started",
		"sessionID", s.id,
		"roundID", round.ID,
		"listSize", len(pool),
		"candidates", len(round.Candidates),
		"radiusMi", round.RadiusMi,
	)

	s.persistLocked(ctx)
	s.queueEvent(domain.EventRoundStarted)
	if round.IsComplete() {
		s.queueEvent(domain.EventRoundCompleted)
	}

	return s.snapshotLocked(), nil
}

// Vote records a like or pass on the current card
func (s *Session) Vote(choice domain.Choice) (*domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil || s.phase == domain.PhaseSetup {
		return nil, domain.ErrNoActiveRound
	}

	if err := s.round.Vote(choice); err != nil {
		return nil, err
	}
	metrics.VotesTotal.WithLabelValues(choice.String()).Inc()

	if s.round.IsComplete() {
		if err := s.transitionLocked(domain.PhaseComplete); err != nil {
			return nil, err
		}
		s.logger.Info("round complete",
			"sessionID", s.id,
			"roundID", s.round.ID,
			"likes", len(s.round.LikedNames),
		)
		s.queueEvent(domain.EventRoundCompleted)
	} else {
		s.queueEvent(domain.EventVoteCast)
	}

	return s.snapshotLocked(), nil
}

// ResetRound returns to setup. The last round's likes stay available for
// overlap and export until the next round starts.
func (s *Session) ResetRound() *domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseSetup {
		if err := s.transitionLocked(domain.PhaseSetup); err == nil {
			s.queueEvent(domain.EventRoundReset)
		}
	}

	return s.snapshotLocked()
}

// Likes returns the liked names of the last round in voting order
func (s *Session) Likes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.round == nil {
		return []string{}
	}
	return s.round.Likes()
}

// LikedCandidates returns the liked candidates of the last round in round order
func (s *Session) LikedCandidates() []domain.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.round == nil {
		return []domain.Candidate{}
	}
	return s.round.LikedCandidates()
}

// CopyLikes renders the likes as a JSON array and tries to put it on the
// clipboard. The text is returned either way.
func (s *Session) CopyLikes() (text string, copied bool) {
	text = domain.EncodeLikes(s.Likes())

	if s.clipboard == nil {
		return text, false
	}
	if err := s.clipboard.WriteAll(text); err != nil {
		s.logger.Debug("clipboard write failed", "sessionID", s.id, "error", err)
		return text, false
	}
	return text, true
}

// Overlap returns my likes that the partner also liked, in my order. raw is
// the partner's likes as pasted JSON text.
func (s *Session) Overlap(raw string) ([]string, error) {
	partner, err := domain.ParsePartnerLikes(raw)
	if err != nil {
		return nil, err
	}
	return domain.Overlap(s.Likes(), partner), nil
}

// Close shuts down the session
func (s *Session) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	// Close all client connections
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
		metrics.FeedClients.Dec()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}

// transitionLocked moves to target (caller must hold lock)
func (s *Session) transitionLocked(target domain.Phase) error {
	if !s.phase.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, s.phase, target)
	}
	s.phase = target
	return nil
}

// snapshotLocked builds the state view (caller must hold lock)
func (s *Session) snapshotLocked() *domain.SessionState {
	state := &domain.SessionState{
		Phase:      s.phase,
		Settings:   s.settings,
		Origin:     s.origin,
		LookupBusy: s.lookupBusy || s.locating,
	}

	if s.status != nil {
		status := *s.status
		state.Status = &status
	}

	if s.round != nil && s.phase != domain.PhaseSetup {
		state.RoundID = s.round.ID
		state.RangeInfo = s.round.RangeInfo()
		switch s.phase {
		case domain.PhaseInProgress:
			state.Card = s.round.Card()
		case domain.PhaseComplete:
			state.Results = s.round.Results()
		}
	}

	return state
}

func (s *Session) setStatusLocked(message string, isError bool) {
	s.status = &domain.StatusPayload{Message: message, IsError: isError}
	s.queueEvent(domain.EventStatus)
}

// restore loads saved settings. Missing or unreadable keys keep defaults.
func (s *Session) restore(ctx context.Context) {
	if s.store == nil {
		return
	}

	get := func(key string) string {
		value, ok, err := s.store.Get(ctx, key)
		if err != nil {
			s.logger.Warn("failed to read saved setting", "key", key, "error", err)
			return ""
		}
		if !ok {
			return ""
		}
		return value
	}

	if v := get(storage.KeyList); v != "" {
		s.settings.ListText = v
	}
	if v := get(storage.KeyCount); v != "" {
		s.settings.Count = positiveOr(v, domain.DefaultRoundSize)
	}
	if v := get(storage.KeyRadius); v != "" {
		s.settings.Radius = positiveOr(v, domain.DefaultRadiusMi)
	}
	if v := get(storage.KeyLat); v != "" {
		s.settings.Lat = v
		if lat, ok := parseField(v); ok {
			s.origin.Lat = &lat
		}
	}
	if v := get(storage.KeyLng); v != "" {
		s.settings.Lng = v
		if lng, ok := parseField(v); ok {
			s.origin.Lng = &lng
		}
	}
}

// persistLocked saves the setup form (caller must hold lock). Lat and lng are
// only saved when blank or numeric.
func (s *Session) persistLocked(ctx context.Context) {
	if s.store == nil {
		return
	}

	values := [][2]string{
		{storage.KeyList, s.settings.ListText},
		{storage.KeyCount, s.settings.Count},
		{storage.KeyRadius, s.settings.Radius},
	}
	if savableCoordinate(s.settings.Lat) {
		values = append(values, [2]string{storage.KeyLat, s.settings.Lat})
	}
	if savableCoordinate(s.settings.Lng) {
		values = append(values, [2]string{storage.KeyLng, s.settings.Lng})
	}

	for _, kv := range values {
		if err := s.store.Set(ctx, kv[0], kv[1]); err != nil {
			s.logger.Warn("failed to save setting", "key", kv[0], "error", err)
		}
	}
}

// queueEvent adds a state event to the broadcast queue (caller must hold lock)
func (s *Session) queueEvent(eventType domain.EventType) {
	event := domain.NewEvent(eventType, s.id, s.snapshotLocked())
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to every client
func (s *Session) broadcastEvent(event *domain.SessionEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for clientID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "clientID", clientID, "error", err)
		}
	}
}

// parseField reads a lat/lng field. Blank or non-numeric is unset.
func parseField(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func savableCoordinate(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	_, ok := parseField(raw)
	return ok
}

// positiveOr normalises a saved count or radius, falling back when it is not
// a positive number
func positiveOr(raw string, fallback float64) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !(f > 0) || math.IsInf(f, 0) {
		return formatNumber(fallback)
	}
	return formatNumber(f)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
