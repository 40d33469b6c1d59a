package model

import "time"

// EntityKind distinguishes user profiles from repositories.
type EntityKind string

const (
	KindUser EntityKind = "user"
	KindRepo EntityKind = "repo"
)

// Candidate is a tentative GitHub identity extracted from resume text,
// before any remote verification.
type Candidate struct {
	Kind       EntityKind `json:"type"`
	Owner      string     `json:"owner"`
	Repo       string     `json:"repo,omitempty"`
	URL        string     `json:"url"`
	Confidence float64    `json:"confidence"`
}

// IdentityKey returns the deduplication key for the candidate: the owner
// login for users, owner/repo for repositories. Not unique across kinds —
// a user "x" and a repo "x/y" coexist.
func (c Candidate) IdentityKey() string {
	if c.Repo != "" {
		return c.Owner + "/" + c.Repo
	}
	return c.Owner
}

// Activity summarizes how active a user has been over the trailing
// 30-day window.
type Activity struct {
	DaysActive    int `json:"daysActive"`
	PercentActive int `json:"percentActive"`
}

// RepoSummary is one repository's enrichment data, nested under a user's
// enriched record. The same fields appear inline on repo-kind records.
type RepoSummary struct {
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	HTMLURL         string     `json:"html_url"`
	Description     string     `json:"description"`
	StargazersCount int        `json:"stargazers_count"`
	ForksCount      int        `json:"forks_count"`
	Readme          string     `json:"readme,omitempty"`
	ReadmeSnippet   string     `json:"readmeSnippet,omitempty"`
	TechStack       []string   `json:"techStack,omitempty"`
	FirstCommitDate *time.Time `json:"firstCommitDate"`
	LastCommitDate  *time.Time `json:"lastCommitDate"`
	DurationDays    *int       `json:"durationDays"`
}

// EnrichedRecord is a candidate plus whatever live GitHub metadata could be
// fetched for it. Enrichment is additive: every field here degrades to its
// zero value independently when the corresponding fetch fails.
type EnrichedRecord struct {
	Candidate

	// User-kind fields. Profile and Repos serialize even when empty so a
	// user record always carries profile and repos keys on the wire.
	Profile  map[string]any `json:"profile"`
	Activity *Activity      `json:"activity,omitempty"`
	Repos    []RepoSummary  `json:"repos"`

	// Repo-kind fields.
	RepoInfo        map[string]any `json:"repoInfo,omitempty"`
	Readme          string         `json:"readme,omitempty"`
	ReadmeSnippet   string         `json:"readmeSnippet,omitempty"`
	TechStack       []string       `json:"techStack,omitempty"`
	FirstCommitDate *time.Time     `json:"firstCommitDate,omitempty"`
	LastCommitDate  *time.Time     `json:"lastCommitDate,omitempty"`
	DurationDays    *int           `json:"durationDays,omitempty"`
}

// Result is the pipeline's caller-facing output: zero or exactly one
// enriched record.
type Result struct {
	Success bool             `json:"success"`
	GitHub  []EnrichedRecord `json:"github"`
}

// EmptyResult is the well-formed "nothing found" outcome.
func EmptyResult() *Result {
	return &Result{Success: true, GitHub: []EnrichedRecord{}}
}
