package models

import "strings"

// SocialFields are the optional social links of a profile write. They arrive
// flat in the request body and are stored under "social".
type SocialFields struct {
	YouTube   *string `json:"youtube,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
}

// ProfileFields is a sparse profile write. A nil or empty field is absent and
// never overwrites a stored value.
type ProfileFields struct {
	Handle         *string `json:"handle,omitempty"`
	Company        *string `json:"company,omitempty"`
	Website        *string `json:"website,omitempty"`
	Location       *string `json:"location,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Status         *string `json:"status,omitempty"`
	GitHubUsername *string `json:"githubusername,omitempty"`

	// comma separated
	Skills *string `json:"skills,omitempty"`

	SocialFields
}

type fieldSet struct {
	key   string
	value any
	apply func(p *Profile)
}

func (f ProfileFields) sets() []fieldSet {
	var out []fieldSet
	str := func(key string, v *string, dst func(p *Profile) *string) {
		if !present(v) {
			return
		}
		val := *v
		out = append(out, fieldSet{key: key, value: val, apply: func(p *Profile) { *dst(p) = val }})
	}
	social := func(key string, v *string, dst func(s *Social) *string) {
		if !present(v) {
			return
		}
		val := *v
		out = append(out, fieldSet{key: "social." + key, value: val, apply: func(p *Profile) {
			if p.Social == nil {
				p.Social = &Social{}
			}
			*dst(p.Social) = val
		}})
	}

	str("handle", trimmed(f.Handle), func(p *Profile) *string { return &p.Handle })
	str("company", f.Company, func(p *Profile) *string { return &p.Company })
	str("website", f.Website, func(p *Profile) *string { return &p.Website })
	str("location", f.Location, func(p *Profile) *string { return &p.Location })
	str("bio", f.Bio, func(p *Profile) *string { return &p.Bio })
	str("status", f.Status, func(p *Profile) *string { return &p.Status })
	str("githubusername", f.GitHubUsername, func(p *Profile) *string { return &p.GitHubUsername })

	if skills := SplitSkills(f.Skills); len(skills) > 0 {
		out = append(out, fieldSet{key: "skills", value: skills, apply: func(p *Profile) {
			p.Skills = append([]string(nil), skills...)
		}})
	}

	social("youtube", f.YouTube, func(s *Social) *string { return &s.YouTube })
	social("twitter", f.Twitter, func(s *Social) *string { return &s.Twitter })
	social("facebook", f.Facebook, func(s *Social) *string { return &s.Facebook })
	social("linkedin", f.LinkedIn, func(s *Social) *string { return &s.LinkedIn })
	social("instagram", f.Instagram, func(s *Social) *string { return &s.Instagram })
	return out
}

// Patch returns the merge patch: only supplied keys, social links as dotted
// "social.<name>" keys so sibling links are left alone.
func (f ProfileFields) Patch() map[string]any {
	sets := f.sets()
	out := make(map[string]any, len(sets))
	for _, s := range sets {
		out[s.key] = s.value
	}
	return out
}

// Apply merges the supplied fields into p.
func (f ProfileFields) Apply(p *Profile) {
	for _, s := range f.sets() {
		s.apply(p)
	}
}

// HandleValue returns the supplied handle without surrounding spaces, or ""
// when absent.
func (f ProfileFields) HandleValue() string {
	h := trimmed(f.Handle)
	if !present(h) {
		return ""
	}
	return *h
}

func (f ProfileFields) Empty() bool { return len(f.sets()) == 0 }

// SplitSkills splits a comma separated list, trimming entries and dropping
// empty ones. Absent input yields nil.
func SplitSkills(raw *string) []string {
	if raw == nil {
		return nil
	}
	var out []string
	for _, s := range strings.Split(*raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func present(v *string) bool { return v != nil && *v != "" }

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
