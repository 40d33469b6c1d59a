package enrich

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sells-group/resume-intel/internal/model"
	"github.com/sells-group/resume-intel/pkg/github"
)

// repoDetailWorkers bounds concurrent in-flight repo-detail fetches. The
// repos themselves were already fetched in one listing call; only the
// per-repo README and language lookups run under the pool.
const repoDetailWorkers = 3

// summarizeRepos enriches each listed repository with README and language
// data. A fixed pool of workers pulls indices from a shared cursor and
// writes into a pre-sized slot slice, so the output order matches the
// listing order rather than worker-completion order. Each slot is owned by
// exactly one worker at a time; no locks are needed.
func (e *Enricher) summarizeRepos(ctx context.Context, owner string, repos []github.Repository) []model.RepoSummary {
	out := make([]model.RepoSummary, len(repos))
	if len(repos) == 0 {
		return out
	}

	workers := repoDetailWorkers
	if len(repos) < workers {
		workers = len(repos)
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= len(repos) {
					return
				}
				out[idx] = e.summarizeRepo(ctx, owner, repos[idx])
			}
		}()
	}
	wg.Wait()

	return out
}

// summarizeRepo builds one repository's summary. README and language
// failures are isolated to this repo's record and simply leave the fields
// absent; they never abort sibling repos.
func (e *Enricher) summarizeRepo(ctx context.Context, owner string, repo github.Repository) model.RepoSummary {
	sum := model.RepoSummary{
		Name:            repo.Name,
		FullName:        repo.FullName,
		HTMLURL:         repo.HTMLURL,
		Description:     repo.Description,
		StargazersCount: repo.StargazersCount,
		ForksCount:      repo.ForksCount,
		FirstCommitDate: repo.CreatedAt,
		LastCommitDate:  repo.PushedAt,
		DurationDays:    durationDays(repo.CreatedAt, repo.PushedAt),
	}

	subject := owner + "/" + repo.Name

	readme := callOrDefault("readme", subject, func() (string, error) {
		return e.gh.GetReadme(ctx, owner, repo.Name)
	})
	if readme != "" {
		sum.Readme = readme
		sum.ReadmeSnippet = snippet(readme)
	}

	langs := callOrDefault("languages", subject, func() (github.Languages, error) {
		return e.gh.GetLanguages(ctx, owner, repo.Name)
	})
	if len(langs) > 0 {
		sum.TechStack = techStack(langs)
	}

	return sum
}
