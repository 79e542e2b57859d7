package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubRecordKind string

const (
	KindExperience SubRecordKind = "experience"
	KindEducation  SubRecordKind = "education"
)

func (k SubRecordKind) Valid() bool {
	return k == KindExperience || k == KindEducation
}

// SubRecord is an entry nested in one of a profile's ordered sequences.
type SubRecord interface {
	Kind() SubRecordKind
	RecordID() primitive.ObjectID
	WithRecordID(id primitive.ObjectID) SubRecord
}

type Social struct {
	YouTube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time          `bson:"from" json:"from"`
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

func (Experience) Kind() SubRecordKind            { return KindExperience }
func (e Experience) RecordID() primitive.ObjectID { return e.ID }

func (e Experience) WithRecordID(id primitive.ObjectID) SubRecord {
	e.ID = id
	return e
}

type Education struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy" json:"fieldofstudy"`
	From         time.Time          `bson:"from" json:"from"`
	To           *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

func (Education) Kind() SubRecordKind            { return KindEducation }
func (e Education) RecordID() primitive.ObjectID { return e.ID }

func (e Education) WithRecordID(id primitive.ObjectID) SubRecord {
	e.ID = id
	return e
}

// Owner is the public slice of the owning user attached to profile reads.
type Owner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type Profile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID string             `bson:"user_id" json:"user_id"` // users.id (postgres)
	Owner  *Owner             `bson:"-" json:"user,omitempty"`

	// handle is omitted when unset so the sparse unique index ignores it
	Handle         string   `bson:"handle,omitempty" json:"handle,omitempty"`
	Company        string   `bson:"company,omitempty" json:"company,omitempty"`
	Website        string   `bson:"website,omitempty" json:"website,omitempty"`
	Location       string   `bson:"location,omitempty" json:"location,omitempty"`
	Bio            string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Status         string   `bson:"status,omitempty" json:"status,omitempty"`
	GitHubUsername string   `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Skills         []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Social         *Social  `bson:"social,omitempty" json:"social,omitempty"`

	// newest first
	Experience []Experience `bson:"experience" json:"experience"`
	Education  []Education  `bson:"education" json:"education"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Prepend inserts rec at the front of its sequence.
func (p *Profile) Prepend(rec SubRecord) {
	switch r := rec.(type) {
	case Experience:
		p.Experience = prepend(p.Experience, r)
	case *Experience:
		p.Experience = prepend(p.Experience, *r)
	case Education:
		p.Education = prepend(p.Education, r)
	case *Education:
		p.Education = prepend(p.Education, *r)
	}
}

// Remove deletes the single entry of kind whose id is id and reports whether
// one was found. The order of the remaining entries is preserved.
func (p *Profile) Remove(kind SubRecordKind, id primitive.ObjectID) bool {
	var ok bool
	switch kind {
	case KindExperience:
		p.Experience, ok = removeByID(p.Experience, id)
	case KindEducation:
		p.Education, ok = removeByID(p.Education, id)
	}
	return ok
}

func prepend[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, v)
	return append(out, s...)
}

func removeByID[T SubRecord](s []T, id primitive.ObjectID) ([]T, bool) {
	for i, r := range s {
		if r.RecordID() == id {
			out := make([]T, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...), true
		}
	}
	return s, false
}
