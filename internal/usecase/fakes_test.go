package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/GoArmGo/SmokeLog/internal/messaging/payloads"
	"github.com/google/uuid"
)

// memSmokes — хранилище записей в памяти для тестов сервиса
type memSmokes struct {
	mu     sync.Mutex
	rows   map[uuid.UUID]domain.Smoke
	order  []uuid.UUID
	err    error
	writes int
}

func newMemSmokes() *memSmokes {
	return &memSmokes{rows: map[uuid.UUID]domain.Smoke{}}
}

func (m *memSmokes) CreateSmoke(_ context.Context, s *domain.Smoke) (*domain.Smoke, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	s.User = domain.UserSummary{ID: s.UserID, Username: "user-" + s.UserID.String()[:4]}
	m.rows[s.ID] = *s
	m.order = append(m.order, s.ID)
	m.writes++
	out := *s
	return &out, nil
}

func (m *memSmokes) GetSmokeByID(_ context.Context, id uuid.UUID) (*domain.Smoke, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *memSmokes) ListSmokes(_ context.Context, q domain.SmokeQuery) ([]domain.Smoke, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Smoke{}
	for _, id := range m.order {
		if s, ok := m.rows[id]; ok && q.Matches(s) {
			out = append(out, s)
		}
	}
	less := func(a, b domain.Smoke) bool {
		switch q.SortField {
		case domain.SortByRating:
			return a.Rating < b.Rating
		case domain.SortByWeather:
			return a.Weather < b.Weather
		default:
			return a.Date.Before(b.Date)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Direction == domain.SortAsc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out, nil
}

func (m *memSmokes) ListRecipeTitles(_ context.Context, owner uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	set := map[string]struct{}{}
	for _, s := range m.rows {
		if s.UserID == owner {
			set[s.RecipeTitle] = struct{}{}
		}
	}
	titles := make([]string, 0, len(set))
	for t := range set {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles, nil
}

func (m *memSmokes) UpdateSmoke(_ context.Context, owner, id uuid.UUID, f domain.SmokeFields) (*domain.Smoke, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.rows[id]
	if !ok || s.UserID != owner {
		return nil, domain.ErrNotFound
	}
	f.Apply(&s)
	s.UpdatedAt = time.Now().UTC()
	m.rows[id] = s
	m.writes++
	return &s, nil
}

func (m *memSmokes) DeleteSmoke(_ context.Context, owner, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	s, ok := m.rows[id]
	if !ok || s.UserID != owner {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	m.writes++
	return nil
}

// memUsers — хранилище пользователей в памяти
type memUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[uuid.UUID]domain.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Email == u.Email || existing.Username == u.Username {
			return domain.ErrConflict
		}
	}
	u.ID = uuid.New()
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type recordingPublisher struct {
	published []payloads.SmokeExportPayload
	err       error
}

func (p *recordingPublisher) PublishSmokeExportRequest(_ context.Context, payload payloads.SmokeExportPayload) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, payload)
	return nil
}

type memFiles struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemFiles() *memFiles {
	return &memFiles{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *memFiles) UploadFile(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objects[key] = b
	f.types[key] = contentType
	return "mem://bucket/" + key, nil
}

func (f *memFiles) DeleteFile(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

// slowSmokes зависает на чтениях и обновлении до отмены контекста.
// С passGet чтение по ID проходит, и висит только само обновление.
type slowSmokes struct {
	*memSmokes
	passGet bool
}

func (s *slowSmokes) GetSmokeByID(ctx context.Context, id uuid.UUID) (*domain.Smoke, error) {
	if s.passGet {
		return s.memSmokes.GetSmokeByID(ctx, id)
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *slowSmokes) ListSmokes(ctx context.Context, _ domain.SmokeQuery) ([]domain.Smoke, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *slowSmokes) UpdateSmoke(ctx context.Context, _, _ uuid.UUID, _ domain.SmokeFields) (*domain.Smoke, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
