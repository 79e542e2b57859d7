package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfilePrepend(t *testing.T) {
	var p Profile
	e1 := Experience{ID: primitive.NewObjectID(), Title: "first"}
	e2 := Experience{ID: primitive.NewObjectID(), Title: "second"}

	p.Prepend(e1)
	p.Prepend(&e2)
	p.Prepend(Education{ID: primitive.NewObjectID(), School: "MIT"})

	assert.Equal(t, []Experience{e2, e1}, p.Experience)
	assert.Len(t, p.Education, 1)
}

func TestProfileRemove(t *testing.T) {
	a := Education{ID: primitive.NewObjectID(), School: "a"}
	b := Education{ID: primitive.NewObjectID(), School: "b"}
	c := Education{ID: primitive.NewObjectID(), School: "c"}

	t.Run("removes exactly the match", func(t *testing.T) {
		p := Profile{Education: []Education{a, b, c}}
		assert.True(t, p.Remove(KindEducation, b.ID))
		assert.Equal(t, []Education{a, c}, p.Education)
	})

	t.Run("unknown id leaves the sequence alone", func(t *testing.T) {
		p := Profile{Education: []Education{a, b, c}}
		assert.False(t, p.Remove(KindEducation, primitive.NewObjectID()))
		assert.Equal(t, []Education{a, b, c}, p.Education)
	})

	t.Run("kind selects the sequence", func(t *testing.T) {
		p := Profile{Education: []Education{a}}
		assert.False(t, p.Remove(KindExperience, a.ID))
		assert.Len(t, p.Education, 1)
	})
}

func TestSubRecordWithRecordID(t *testing.T) {
	id := primitive.NewObjectID()
	rec := Experience{Title: "dev"}.WithRecordID(id)

	assert.Equal(t, KindExperience, rec.Kind())
	assert.Equal(t, id, rec.RecordID())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-03-01")
	assert.NoError(t, err)
	assert.Equal(t, 2020, d.Year())

	_, err = ParseDate("2020-03-01T10:00:00Z")
	assert.NoError(t, err)

	_, err = ParseDate("March 2020")
	assert.Error(t, err)
}

func TestExperienceInputRecord(t *testing.T) {
	rec, err := ExperienceInput{Title: "dev", Company: "Acme", From: "2019-01-01", Current: true}.Record()
	assert.NoError(t, err)
	assert.Nil(t, rec.To)
	assert.True(t, rec.Current)

	rec, err = ExperienceInput{Title: "dev", Company: "Acme", From: "2019-01-01", To: "2020-01-01"}.Record()
	assert.NoError(t, err)
	if assert.NotNil(t, rec.To) {
		assert.Equal(t, 2020, rec.To.Year())
	}
}
