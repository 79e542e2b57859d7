package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ProfilesCollection = "profiles"

// ErrProfileExists is returned by Create when the user already has a profile.
var ErrProfileExists = errors.New("profile already exists for user")

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	FindByHandle(ctx context.Context, handle string) (*models.Profile, error)
	// HandleTaken reports whether a profile other than exclude uses handle.
	HandleTaken(ctx context.Context, handle string, exclude primitive.ObjectID) (bool, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, p *models.Profile) error
	// UpdateFields applies the merge patch of fields with $set and returns the
	// updated document.
	UpdateFields(ctx context.Context, userID string, fields models.ProfileFields) (*models.Profile, error)
	// Save replaces the stored document with p.
	Save(ctx context.Context, p *models.Profile) error
	DeleteByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type profileRepo struct {
	col *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) ProfileRepository {
	return &profileRepo{col: db.Collection(ProfilesCollection)}
}

func (r *profileRepo) findOne(ctx context.Context, filter bson.M) (*models.Profile, error) {
	var p models.Profile
	err := r.col.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *profileRepo) FindByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return r.findOne(ctx, bson.M{"handle": handle})
}

func (r *profileRepo) HandleTaken(ctx context.Context, handle string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"handle": handle}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *profileRepo) List(ctx context.Context) ([]models.Profile, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *profileRepo) Create(ctx context.Context, p *models.Profile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	if p.Education == nil {
		p.Education = []models.Education{}
	}
	_, err := r.col.InsertOne(ctx, p)
	return translate(err)
}

func (r *profileRepo) UpdateFields(ctx context.Context, userID string, fields models.ProfileFields) (*models.Profile, error) {
	set := bson.M{}
	for k, v := range fields.Patch() {
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	var p models.Profile
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *profileRepo) Save(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *profileRepo) DeleteByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.col.FindOneAndDelete(ctx, bson.M{"user_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// translate maps unique index violations on handle and user_id to
// ErrDuplicateHandle and ErrProfileExists.
func translate(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	switch msg := err.Error(); {
	case strings.Contains(msg, "handle"):
		return utils.ErrDuplicateHandle
	case strings.Contains(msg, "user_id"):
		return ErrProfileExists
	}
	return err
}
