package model

import "time"

// Profile is a user's public developer profile.
//
// Exactly one profile exists per user (user_id is UNIQUE in the profiles
// table), and the handle is globally unique: it's the human-chosen name that
// appears in public URLs like /profile/handle/alice-dev.
//
// Experience and Education are nested ordered collections owned exclusively
// by this profile. Their ordering invariant is "most-recent-first by
// insertion": a new entry is always prepended, regardless of its dates.
//
// Skills is an ordered list derived by splitting the comma-separated string
// the client submits ("html,css,js" → ["html","css","js"]). We keep the
// split form in the model and only join it back at the storage boundary.
type Profile struct {
	ID             string       `json:"id"`
	User           ProfileUser  `json:"user"`
	Handle         string       `json:"handle"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Bio            string       `json:"bio,omitempty"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Social         Social       `json:"social"`
	CreatedAt      time.Time    `json:"date"`
}

// ProfileUser is the minimal identity view joined into every profile read:
// just enough to render "who owns this profile" (name + avatar) without
// exposing the rest of the User record.
type ProfileUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar"`
}

// Experience is one work-history entry inside a profile.
//
// WHY *time.Time FOR To?
// The end date is genuinely optional ("I still work here"), and the zero
// time.Time is indistinguishable from "very old date" once serialized. A nil
// pointer makes "no end date" explicit in both JSON (null) and SQL (NULL).
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is one schooling entry inside a profile. Same shape rules as
// Experience: From is required, To is optional, entries are prepended.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Social holds the profile's external links. The set of networks is fixed at
// these five; unknown networks are rejected at the JSON boundary rather than
// stored in a free-form map.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}
