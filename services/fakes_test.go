package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/realtime"
	"github.com/Dosada05/bracketview/repositories"
	"github.com/Dosada05/bracketview/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
		if existing.Username == u.Username {
			return repositories.ErrUserUsernameConflict
		}
	}
	u.ID = len(r.users) + 1
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

type fakeEventRepo struct {
	mu      sync.Mutex
	events  map[int]*models.Event
	editors map[int]map[int]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int]*models.Event{}, editors: map[int]map[int]bool{}}
}

func (r *fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = len(r.events) + 1
	stored := *e
	r.events[e.ID] = &stored
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	out := *e
	return &out, nil
}

func (r *fakeEventRepo) List(_ context.Context, filter repositories.ListEventsFilter) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	stored := *e
	r.events[e.ID] = &stored
	return nil
}

func (r *fakeEventRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) Count(_ context.Context, status *models.EventStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if status == nil || e.Status == *status {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) AddEditor(_ context.Context, eventID, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.editors[eventID] == nil {
		r.editors[eventID] = map[int]bool{}
	}
	if r.editors[eventID][userID] {
		return repositories.ErrEditorConflict
	}
	r.editors[eventID][userID] = true
	return nil
}

func (r *fakeEventRepo) RemoveEditor(_ context.Context, eventID, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.editors[eventID][userID] {
		return repositories.ErrEditorNotFound
	}
	delete(r.editors[eventID], userID)
	return nil
}

func (r *fakeEventRepo) ListEditors(_ context.Context, eventID int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for id := range r.editors[eventID] {
		out = append(out, models.User{ID: id})
	}
	return out, nil
}

func (r *fakeEventRepo) IsEditor(_ context.Context, eventID, userID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.editors[eventID][userID], nil
}

func (r *fakeEventRepo) status(id int) models.EventStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id].Status
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func (r *fakeTeamRepo) Create(_ context.Context, t *models.Team) error {
	if r.teams == nil {
		r.teams = map[int]*models.Team{}
	}
	t.ID = len(r.teams) + 1
	stored := *t
	r.teams[t.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	out := *t
	return &out, nil
}

type fakeParticipantRepo struct {
	mu   sync.Mutex
	rows []models.Participant
}

func (r *fakeParticipantRepo) Create(_ context.Context, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		sameUser := p.UserID != nil && existing.UserID != nil && *p.UserID == *existing.UserID
		sameTeam := p.TeamID != nil && existing.TeamID != nil && *p.TeamID == *existing.TeamID
		if existing.EventID == p.EventID && (sameUser || sameTeam) {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = len(r.rows) + 1
	r.rows = append(r.rows, *p)
	return nil
}

func (r *fakeParticipantRepo) FindByID(_ context.Context, id int) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) ListByEvent(_ context.Context, eventID int, status *models.ParticipantStatus) ([]models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Participant{}
	for _, p := range r.rows {
		if p.EventID != eventID || (status != nil && p.Status != *status) {
			continue
		}
		out = append(out, p)
	}
	sortBySeed(out)
	return out, nil
}

func (r *fakeParticipantRepo) UpdateStatus(_ context.Context, id int, status models.ParticipantStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Status = status
			if status != models.ParticipantStatusParticipant {
				r.rows[i].Seed = nil
			}
			return nil
		}
	}
	return repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) ReplaceSeeds(_ context.Context, _ repositories.SQLExecutor, eventID int, seeds map[int]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].EventID != eventID {
			continue
		}
		r.rows[i].Seed = nil
		if seed, ok := seeds[r.rows[i].ID]; ok {
			r.rows[i].Seed = intPtr(seed)
		}
	}
	return nil
}

func (r *fakeParticipantRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

// add registers an accepted solo participant with a username.
func (r *fakeParticipantRepo) add(eventID int, username string, seed *int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := len(r.rows) + 1
	userID := 100 + id
	r.rows = append(r.rows, models.Participant{
		ID:      id,
		EventID: eventID,
		UserID:  &userID,
		Seed:    seed,
		Status:  models.ParticipantStatusParticipant,
		User:    &models.User{ID: userID, Username: username},
	})
	return id
}

type fakeMatchRepo struct {
	mu   sync.Mutex
	rows []models.Match
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = len(r.rows) + 1
	r.rows = append(r.rows, *m)
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByEvent(_ context.Context, eventID int) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Match{}
	for _, m := range r.rows {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) DeleteByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, m := range r.rows {
		if m.EventID != eventID {
			kept = append(kept, m)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == m.ID {
			if r.rows[i].Status == models.MatchStatusCompleted {
				return repositories.ErrMatchAlreadyCompleted
			}
			r.rows[i].Score1, r.rows[i].Score2 = m.Score1, m.Score2
			r.rows[i].WinnerID = m.WinnerID
			r.rows[i].Status = m.Status
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) FillSlots(_ context.Context, _ repositories.SQLExecutor, eventID int, sourceUID string, loser bool, participantID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		m := &r.rows[i]
		if m.EventID != eventID {
			continue
		}
		if m.Source1UID != nil && *m.Source1UID == sourceUID && m.Source1Loser == loser {
			m.Participant1ID = participantID
		}
		if m.Source2UID != nil && *m.Source2UID == sourceUID && m.Source2Loser == loser {
			m.Participant2ID = participantID
		}
		if m.Status == models.MatchStatusPending && m.Participant1ID != nil && m.Participant2ID != nil {
			m.Status = models.MatchStatusScheduled
		}
	}
	return nil
}

func (r *fakeMatchRepo) CountCompleted(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.rows {
		if m.Status == models.MatchStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (r *fakeMatchRepo) byUID(uid string) models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.BracketUID == uid {
			return m
		}
	}
	return models.Match{}
}

type fakeTx struct{}

func (fakeTx) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type recordingHub struct {
	mu       sync.Mutex
	messages []realtime.Message
}

func (h *recordingHub) BroadcastToRoom(_ string, message interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := message.(realtime.Message); ok {
		h.messages = append(h.messages, m)
	}
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.messages))
	for i, m := range h.messages {
		out[i] = m.Type
	}
	return out
}

type fakePublisher struct {
	published []interface{}
}

func (p *fakePublisher) Publish(_ context.Context, eventID int, data interface{}) (*storage.UploadResult, error) {
	p.published = append(p.published, data)
	return &storage.UploadResult{Key: storage.SnapshotKey(eventID), Location: "https://cdn.example.com/snapshot.json"}, nil
}
