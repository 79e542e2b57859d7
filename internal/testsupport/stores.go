// Package testsupport holds in-memory stand-ins for the stores, cache and
// event bus, shared by the service and handler tests.
package testsupport

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yoockh/devconnect/internal/events"
	"github.com/yoockh/devconnect/internal/models"
	mongorepo "github.com/yoockh/devconnect/internal/repositories/mongo"
	pgrepo "github.com/yoockh/devconnect/internal/repositories/postgres"
	"github.com/yoockh/devconnect/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileStore is an in-memory mongo.ProfileRepository. Stored documents are
// copied on the way in and out, like a real store.
type ProfileStore struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Profile

	// Err, when set, is returned by every call.
	Err error
	// Writes counts successful Create, UpdateFields, Save and DeleteByUserID calls.
	Writes int
}

func NewProfileStore(seed ...models.Profile) *ProfileStore {
	s := &ProfileStore{docs: map[primitive.ObjectID]models.Profile{}}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		s.docs[p.ID] = clone(p)
	}
	return s
}

func (s *ProfileStore) Get(userID string) (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byUser(userID)
	return clone(p), ok
}

func (s *ProfileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *ProfileStore) byUser(userID string) (models.Profile, bool) {
	for _, p := range s.docs {
		if p.UserID == userID {
			return p, true
		}
	}
	return models.Profile{}, false
}

func (s *ProfileStore) handleUsed(handle string, exclude primitive.ObjectID) bool {
	if handle == "" {
		return false
	}
	for id, p := range s.docs {
		if id != exclude && p.Handle == handle {
			return true
		}
	}
	return false
}

func (s *ProfileStore) FindByUserID(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.byUser(userID)
	if !ok {
		return nil, utils.ErrNotFound
	}
	out := clone(p)
	return &out, nil
}

func (s *ProfileStore) FindByHandle(_ context.Context, handle string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.docs {
		if p.Handle == handle {
			out := clone(p)
			return &out, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (s *ProfileStore) HandleTaken(_ context.Context, handle string, exclude primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.handleUsed(handle, exclude), nil
}

func (s *ProfileStore) List(_ context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Profile, 0, len(s.docs))
	for _, p := range s.docs {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *ProfileStore) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.byUser(p.UserID); ok {
		return mongorepo.ErrProfileExists
	}
	if s.handleUsed(p.Handle, primitive.NilObjectID) {
		return utils.ErrDuplicateHandle
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.UpdatedAt = time.Now().UTC()
	s.docs[p.ID] = clone(*p)
	s.Writes++
	return nil
}

func (s *ProfileStore) UpdateFields(_ context.Context, userID string, fields models.ProfileFields) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.byUser(userID)
	if !ok {
		return nil, utils.ErrNotFound
	}
	p = clone(p)
	fields.Apply(&p)
	if s.handleUsed(p.Handle, p.ID) {
		return nil, utils.ErrDuplicateHandle
	}
	p.UpdatedAt = time.Now().UTC()
	s.docs[p.ID] = p
	s.Writes++
	out := clone(p)
	return &out, nil
}

func (s *ProfileStore) Save(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.docs[p.ID]; !ok {
		return utils.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	s.docs[p.ID] = clone(*p)
	s.Writes++
	return nil
}

func (s *ProfileStore) DeleteByUserID(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.byUser(userID)
	if !ok {
		return nil, utils.ErrNotFound
	}
	delete(s.docs, p.ID)
	s.Writes++
	return &p, nil
}

func clone(p models.Profile) models.Profile {
	if p.Skills != nil {
		p.Skills = append([]string(nil), p.Skills...)
	}
	if p.Social != nil {
		soc := *p.Social
		p.Social = &soc
	}
	if p.Experience != nil {
		p.Experience = append([]models.Experience{}, p.Experience...)
	}
	if p.Education != nil {
		p.Education = append([]models.Education{}, p.Education...)
	}
	if p.Owner != nil {
		o := *p.Owner
		p.Owner = &o
	}
	return p
}

// UserStore is an in-memory postgres.UserRepository.
type UserStore struct {
	mu    sync.Mutex
	users map[string]models.User
	Err   error
}

func NewUserStore(seed ...models.User) *UserStore {
	s := &UserStore{users: map[string]models.User{}}
	for _, u := range seed {
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return pgrepo.ErrEmailTaken
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (s *UserStore) GetByIDs(_ context.Context, ids []string) (map[string]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := map[string]models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *UserStore) UpdateAvatar(_ context.Context, id, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return utils.ErrNotFound
	}
	u.Avatar = avatar
	s.users[id] = u
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[id]; !ok {
		return utils.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// Events records published profile events.
type Events struct {
	mu  sync.Mutex
	evs []events.ProfileEvent
}

func (e *Events) Publish(_ context.Context, ev events.ProfileEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.evs = append(e.evs, ev)
	return nil
}

func (e *Events) Types() []events.Type {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]events.Type, len(e.evs))
	for i, ev := range e.evs {
		out[i] = ev.Type
	}
	return out
}
