package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/devconnect/internal/cache"
	"github.com/yoockh/devconnect/internal/events"
	"github.com/yoockh/devconnect/internal/models"
	mongorepo "github.com/yoockh/devconnect/internal/repositories/mongo"
	pgrepo "github.com/yoockh/devconnect/internal/repositories/postgres"
	"github.com/yoockh/devconnect/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgNoProfile  = "There is no profile for this user."
	msgNoProfiles = "There are no profiles"
	msgHandleUsed = "That handle already exists"
)

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)

	// Upsert creates the caller's profile from fields, or merges fields into
	// the existing one. Absent fields never overwrite stored values.
	Upsert(ctx context.Context, userID string, fields models.ProfileFields) (*models.Profile, error)
	// AppendSubRecord gives rec a fresh id and inserts it first in its sequence.
	AppendSubRecord(ctx context.Context, userID string, rec models.SubRecord) (*models.Profile, error)
	// RemoveSubRecord removes exactly the entry of kind with recordID.
	RemoveSubRecord(ctx context.Context, userID string, kind models.SubRecordKind, recordID string) (*models.Profile, error)
	// DeleteAccount removes the profile, then the owning user. Nothing is
	// removed when the user does not exist.
	DeleteAccount(ctx context.Context, userID string) error
	// OwnerChanged drops cached reads that embed the owner of userID's profile.
	OwnerChanged(ctx context.Context, userID string)
}

type ProfileOption func(*profileService)

func WithCache(c cache.Cache, ttl time.Duration) ProfileOption {
	return func(s *profileService) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithEvents(p events.Publisher) ProfileOption {
	return func(s *profileService) { s.events = p }
}

func WithLogger(l logrus.FieldLogger) ProfileOption {
	return func(s *profileService) { s.log = l }
}

type profileService struct {
	profiles mongorepo.ProfileRepository
	users    pgrepo.UserRepository

	cache    cache.Cache
	cacheTTL time.Duration
	events   events.Publisher
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewProfileService(profiles mongorepo.ProfileRepository, users pgrepo.UserRepository, opts ...ProfileOption) ProfileService {
	s := &profileService{
		profiles: profiles,
		users:    users,
		cacheTTL: 5 * time.Minute,
		log:      logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	p, err := s.load(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, op, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	const op = "ProfileService.GetByHandle"

	if handle == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "handle is required", nil)
	}
	return s.cachedOne(ctx, op, cache.ProfileByHandleKey(handle), func() (*models.Profile, error) {
		return s.profiles.FindByHandle(ctx, handle)
	})
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetByUserID"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	return s.cachedOne(ctx, op, cache.ProfileByUserKey(userID), func() (*models.Profile, error) {
		return s.profiles.FindByUserID(ctx, userID)
	})
}

func (s *profileService) List(ctx context.Context) ([]models.Profile, error) {
	const op = "ProfileService.List"

	var out []models.Profile
	if s.cacheGet(ctx, cache.ProfileListKey, &out) && len(out) > 0 {
		return out, nil
	}

	out, err := s.profiles.List(ctx)
	if err != nil {
		return nil, s.storeErr(op, "failed to list profiles", "", err)
	}
	if len(out) == 0 {
		return nil, utils.E(utils.CodeNotFound, op, msgNoProfiles, utils.ErrProfileNotFound)
	}
	ptrs := make([]*models.Profile, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := s.populate(ctx, op, ptrs...); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cache.ProfileListKey, out)
	return out, nil
}

func (s *profileService) Upsert(ctx context.Context, userID string, fields models.ProfileFields) (*models.Profile, error) {
	const op = "ProfileService.Upsert"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.upsert(ctx, op, userID, fields)
	if errors.Is(err, mongorepo.ErrProfileExists) {
		// a concurrent first write created the profile; merge into it instead
		p, err = s.upsert(ctx, op, userID, fields)
	}
	if errors.Is(err, mongorepo.ErrProfileExists) {
		return nil, utils.E(utils.CodeConflict, op, "profile was created concurrently, retry", err)
	}
	return p, err
}

// upsert returns mongorepo.ErrProfileExists unwrapped when the create lost a
// race with another first write for userID.
func (s *profileService) upsert(ctx context.Context, op, userID string, fields models.ProfileFields) (*models.Profile, error) {
	existing, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, s.storeErr(op, "failed to load profile", userID, err)
	}

	var exclude primitive.ObjectID
	if existing != nil {
		exclude = existing.ID
	}
	if handle := fields.HandleValue(); handle != "" {
		taken, err := s.profiles.HandleTaken(ctx, handle, exclude)
		if err != nil {
			return nil, s.storeErr(op, "failed to check handle", userID, err)
		}
		if taken {
			if existing == nil {
				// the holder may be this user's own profile, created since the read
				if _, err := s.profiles.FindByUserID(ctx, userID); err == nil {
					return nil, mongorepo.ErrProfileExists
				}
			}
			return nil, duplicateHandle(op)
		}
	}

	var out *models.Profile
	switch {
	case existing == nil:
		p := &models.Profile{
			UserID:     userID,
			Experience: []models.Experience{},
			Education:  []models.Education{},
			CreatedAt:  s.now().UTC(),
		}
		fields.Apply(p)
		if err := s.profiles.Create(ctx, p); err != nil {
			switch {
			case errors.Is(err, utils.ErrDuplicateHandle):
				return nil, duplicateHandle(op)
			case errors.Is(err, mongorepo.ErrProfileExists):
				return nil, err
			}
			return nil, s.storeErr(op, "failed to create profile", userID, err)
		}
		out = p
	case fields.Empty():
		return existing, nil
	default:
		p, err := s.profiles.UpdateFields(ctx, userID, fields)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrDuplicateHandle):
				return nil, duplicateHandle(op)
			case errors.Is(err, utils.ErrNotFound):
				return nil, profileNotFound(op, err)
			}
			return nil, s.storeErr(op, "failed to update profile", userID, err)
		}
		out = p
	}

	oldHandle := ""
	if existing != nil {
		oldHandle = existing.Handle
	}
	s.forget(ctx, userID, oldHandle, out.Handle)
	s.publish(ctx, events.ProfileEvent{Type: events.ProfileUpserted, UserID: userID, Handle: out.Handle})
	return out, nil
}

func (s *profileService) AppendSubRecord(ctx context.Context, userID string, rec models.SubRecord) (*models.Profile, error) {
	const op = "ProfileService.AppendSubRecord"

	if userID == "" || rec == nil || !rec.Kind().Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and a valid record are required", nil)
	}

	p, err := s.load(ctx, op, userID)
	if err != nil {
		return nil, err
	}

	rec = rec.WithRecordID(primitive.NewObjectID())
	p.Prepend(rec)

	if err := s.save(ctx, op, p); err != nil {
		return nil, err
	}

	typ := events.ExperienceAdded
	if rec.Kind() == models.KindEducation {
		typ = events.EducationAdded
	}
	s.forget(ctx, userID, p.Handle)
	s.publish(ctx, events.ProfileEvent{Type: typ, UserID: userID, Handle: p.Handle, RecordID: rec.RecordID().Hex()})
	return p, nil
}

func (s *profileService) RemoveSubRecord(ctx context.Context, userID string, kind models.SubRecordKind, recordID string) (*models.Profile, error) {
	const op = "ProfileService.RemoveSubRecord"

	if userID == "" || !kind.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and a valid kind are required", nil)
	}

	p, err := s.load(ctx, op, userID)
	if err != nil {
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(recordID)
	if err != nil || !p.Remove(kind, id) {
		return nil, utils.E(utils.CodeNotFound, op, string(kind)+" not found", utils.ErrRecordNotFound)
	}

	if err := s.save(ctx, op, p); err != nil {
		return nil, err
	}

	typ := events.ExperienceRemoved
	if kind == models.KindEducation {
		typ = events.EducationRemoved
	}
	s.forget(ctx, userID, p.Handle)
	s.publish(ctx, events.ProfileEvent{Type: typ, UserID: userID, Handle: p.Handle, RecordID: recordID})
	return p, nil
}

func (s *profileService) DeleteAccount(ctx context.Context, userID string) error {
	const op = "ProfileService.DeleteAccount"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return s.storeErr(op, "failed to load user", userID, err)
	}

	handle := ""
	p, err := s.profiles.DeleteByUserID(ctx, userID)
	switch {
	case err == nil:
		handle = p.Handle
	case errors.Is(err, utils.ErrNotFound):
		// a user without a profile can still be removed
	default:
		return s.storeErr(op, "failed to delete profile", userID, err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return s.storeErr(op, "failed to delete user", userID, err)
	}

	s.forget(ctx, userID, handle)
	s.publish(ctx, events.ProfileEvent{Type: events.ProfileDeleted, UserID: userID, Handle: handle})
	return nil
}

func (s *profileService) OwnerChanged(ctx context.Context, userID string) {
	handle := ""
	if p, err := s.profiles.FindByUserID(ctx, userID); err == nil {
		handle = p.Handle
	}
	s.forget(ctx, userID, handle)
}

func (s *profileService) load(ctx context.Context, op, userID string) (*models.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, profileNotFound(op, err)
		}
		return nil, s.storeErr(op, "failed to load profile", userID, err)
	}
	return p, nil
}

func (s *profileService) save(ctx context.Context, op string, p *models.Profile) error {
	if err := s.profiles.Save(ctx, p); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return profileNotFound(op, err)
		}
		return s.storeErr(op, "failed to save profile", p.UserID, err)
	}
	return nil
}

// populate attaches the owner name and avatar to each profile.
func (s *profileService) populate(ctx context.Context, op string, ps ...*models.Profile) error {
	if s.users == nil || len(ps) == 0 {
		return nil
	}
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.UserID)
	}
	owners, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return s.storeErr(op, "failed to load profile owners", "", err)
	}
	for _, p := range ps {
		if u, ok := owners[p.UserID]; ok {
			p.Owner = u.Owner()
		}
	}
	return nil
}

func (s *profileService) cachedOne(ctx context.Context, op, key string, find func() (*models.Profile, error)) (*models.Profile, error) {
	var cached models.Profile
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := find()
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, profileNotFound(op, err)
		}
		return nil, s.storeErr(op, "failed to get profile", "", err)
	}
	if err := s.populate(ctx, op, p); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, p)
	return p, nil
}

func (s *profileService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache get failed")
		return false
	}
	return hit
}

func (s *profileService) cacheSet(ctx context.Context, key string, val any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, val, s.cacheTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (s *profileService) forget(ctx context.Context, userID string, handles ...string) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.ProfileListKey, cache.ProfileByUserKey(userID)}
	for _, h := range handles {
		if h != "" {
			keys = append(keys, cache.ProfileByHandleKey(h))
		}
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("cache invalidation failed")
	}
}

func (s *profileService) publish(ctx context.Context, ev events.ProfileEvent) {
	if s.events == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = s.now().UTC()
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": ev.UserID,
			"event":   ev.Type,
		}).Warn("publish profile event failed")
	}
}

func (s *profileService) storeErr(op, msg, userID string, err error) error {
	s.log.WithError(err).WithFields(logrus.Fields{"op": op, "user_id": userID}).Error(msg)
	return utils.Store(op, msg, err)
}

func profileNotFound(op string, err error) error {
	return &utils.AppError{
		Code:    utils.CodeNotFound,
		Op:      op,
		Message: msgNoProfile,
		Fields:  utils.FieldErrors{"noprofile": {msgNoProfile}},
		Err:     errors.Join(utils.ErrProfileNotFound, err),
	}
}

func duplicateHandle(op string) error {
	return &utils.AppError{
		Code:    utils.CodeInvalidArgument,
		Op:      op,
		Message: msgHandleUsed,
		Fields:  utils.FieldErrors{"handle": {msgHandleUsed}},
		Err:     utils.ErrDuplicateHandle,
	}
}
