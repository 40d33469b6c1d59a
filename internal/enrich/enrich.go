// Package enrich attaches live GitHub metadata to a selected candidate.
package enrich

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/resume-intel/internal/model"
	"github.com/sells-group/resume-intel/pkg/github"
)

const (
	// listPerPage caps the events and repository listings.
	listPerPage = 100
	// activityWindow is the trailing period over which distinct active
	// days are counted.
	activityWindow = 30 * 24 * time.Hour
	activityDays   = 30
	// README snippets keep the first five non-blank lines, capped at 800
	// characters.
	snippetMaxLines = 5
	snippetMaxChars = 800
)

// Enricher expands one candidate into an enriched record by fanning out to
// the GitHub API. It never fails the request on remote-call failure: every
// call degrades its own field and leaves siblings intact.
type Enricher struct {
	gh  github.Client
	now func() time.Time // injectable for testing
}

// New creates an Enricher. The Enricher is shared across requests, so the
// activity window is anchored per call, not at construction.
func New(gh github.Client) *Enricher {
	return &Enricher{gh: gh, now: time.Now}
}

// WithNow pins the clock to a fixed time for testing.
func (e *Enricher) WithNow(t time.Time) *Enricher {
	e.now = func() time.Time { return t }
	return e
}

// callOrDefault runs one remote fetch and degrades any failure — network,
// non-2xx, malformed body — to the zero value. Failure handling for the
// whole orchestrator is declared here and nowhere else.
func callOrDefault[T any](field, subject string, fn func() (T, error)) T {
	v, err := fn()
	if err != nil {
		zap.L().Debug("enrich: field degraded",
			zap.String("field", field),
			zap.String("subject", subject),
			zap.Error(err),
		)
		var zero T
		return zero
	}
	return v
}

// Enrich produces an enriched record for the candidate. The record is the
// candidate plus whatever metadata could be fetched; it is always returned.
func (e *Enricher) Enrich(ctx context.Context, cand model.Candidate) *model.EnrichedRecord {
	rec := &model.EnrichedRecord{Candidate: cand}

	switch cand.Kind {
	case model.KindRepo:
		e.enrichRepo(ctx, rec)
	default:
		e.enrichUser(ctx, rec)
	}
	return rec
}

func (e *Enricher) enrichUser(ctx context.Context, rec *model.EnrichedRecord) {
	owner := rec.Owner

	var repos []github.Repository

	// Profile, events, and the repository listing are independent; fetch
	// them in parallel. Goroutines never return an error — each fetch
	// degrades locally.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec.Profile = callOrDefault("profile", owner, func() (map[string]any, error) {
			return e.gh.GetUser(gCtx, owner)
		})
		return nil
	})
	g.Go(func() error {
		events := callOrDefault("events", owner, func() ([]github.Event, error) {
			return e.gh.ListUserEvents(gCtx, owner, listPerPage)
		})
		rec.Activity = e.activity(events)
		return nil
	})
	g.Go(func() error {
		repos = callOrDefault("repos", owner, func() ([]github.Repository, error) {
			return e.gh.ListUserRepos(gCtx, owner, listPerPage)
		})
		return nil
	})
	_ = g.Wait()

	rec.Repos = e.summarizeRepos(ctx, owner, repos)
}

func (e *Enricher) enrichRepo(ctx context.Context, rec *model.EnrichedRecord) {
	subject := rec.Owner + "/" + rec.Repo

	info := callOrDefault("repoInfo", subject, func() (*github.RepoInfo, error) {
		return e.gh.GetRepo(ctx, rec.Owner, rec.Repo)
	})
	if info != nil {
		rec.RepoInfo = info.Raw
		rec.FirstCommitDate = info.CreatedAt
		rec.LastCommitDate = info.PushedAt
		rec.DurationDays = durationDays(info.CreatedAt, info.PushedAt)
	}

	readme := callOrDefault("readme", subject, func() (string, error) {
		return e.gh.GetReadme(ctx, rec.Owner, rec.Repo)
	})
	if readme != "" {
		rec.Readme = readme
		rec.ReadmeSnippet = snippet(readme)
	}

	langs := callOrDefault("languages", subject, func() (github.Languages, error) {
		return e.gh.GetLanguages(ctx, rec.Owner, rec.Repo)
	})
	if len(langs) > 0 {
		rec.TechStack = techStack(langs)
	}
}

// activity counts distinct UTC calendar dates among events inside the
// trailing 30-day window. A failed or empty events fetch yields zeros.
func (e *Enricher) activity(events []github.Event) *model.Activity {
	now := e.now()
	days := make(map[string]bool)
	for _, ev := range events {
		if ev.CreatedAt.IsZero() {
			continue
		}
		if now.Sub(ev.CreatedAt) > activityWindow || ev.CreatedAt.After(now) {
			continue
		}
		days[ev.CreatedAt.UTC().Format("2006-01-02")] = true
	}
	return &model.Activity{
		DaysActive:    len(days),
		PercentActive: int(math.Round(float64(len(days)) / activityDays * 100)),
	}
}

// snippet returns the first non-blank lines of a README joined by line
// breaks, truncated to the character cap.
func snippet(readme string) string {
	var lines []string
	for _, line := range strings.Split(readme, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == snippetMaxLines {
			break
		}
	}
	s := strings.Join(lines, "\n")
	if len(s) > snippetMaxChars {
		// Walk back to a rune boundary so the cut never emits invalid
		// UTF-8.
		cut := snippetMaxChars
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// techStack returns language names sorted descending by reported byte
// count. Equal byte counts order alphabetically so the output is stable.
func techStack(langs github.Languages) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// durationDays is the repo lifespan: rounded days between creation and last
// push, floored at zero. Nil when either timestamp is missing.
func durationDays(created, pushed *time.Time) *int {
	if created == nil || pushed == nil {
		return nil
	}
	d := int(math.Round(pushed.Sub(*created).Hours() / 24))
	if d < 0 {
		d = 0
	}
	return &d
}
