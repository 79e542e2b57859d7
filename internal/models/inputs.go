package models

import (
	"errors"
	"strings"
	"time"
)

var errBadDate = errors.New("date must be YYYY-MM-DD or RFC3339")

// ParseDate accepts a calendar date or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errBadDate
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Record converts a validated input into an Experience without an id.
func (in ExperienceInput) Record() (Experience, error) {
	from, err := ParseDate(in.From)
	if err != nil {
		return Experience{}, err
	}
	to, err := parseOptionalDate(in.To)
	if err != nil {
		return Experience{}, err
	}
	return Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}, nil
}

type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (in EducationInput) Record() (Education, error) {
	from, err := ParseDate(in.From)
	if err != nil {
		return Education{}, err
	}
	to, err := parseOptionalDate(in.To)
	if err != nil {
		return Education{}, err
	}
	return Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}, nil
}

type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PostInput carries the text of a post. Text is nil when the field was not sent.
type PostInput struct {
	Text *string `json:"text"`
}
