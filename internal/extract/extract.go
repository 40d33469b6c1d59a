package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/resume-intel/internal/model"
)

// Per-heuristic confidence constants. Precision decreases monotonically from
// the protocol-URL pass down to the proximity fallback; the downstream
// threshold relies on these exact values to discard the unreliable passes.
const (
	confProfileURL = 0.99
	confRepoURL    = 0.95
	confLabeled    = 0.9
	confAtMention  = 0.85
	confProximity  = 0.6
)

// login is the GitHub login shape: alphanumeric plus hyphen, 1-39 chars,
// never starting or ending with a hyphen.
const login = `[A-Za-z0-9](?:[A-Za-z0-9-]{0,37}[A-Za-z0-9])?`

var (
	protocolURLRe = regexp.MustCompile(`(?i)https?://(?:www\.)?github\.com/([A-Za-z0-9-]{1,39})(?:/(\S+))?`)
	bareDomainRe  = regexp.MustCompile(`(?i)(?:www\.)?github\.com/([A-Za-z0-9-]{1,39})(?:/(\S+))?`)
	labeledRe     = regexp.MustCompile(`(?i)github\s*[:\-–]?\s*@?(` + login + `)`)
	atMentionRe   = regexp.MustCompile(`@(` + login + `)`)
	// The gap is lazy so the capture lands on the first login-shaped
	// token after the word, not on a fragment 30 characters in.
	proximityRe = regexp.MustCompile(`(?i)github[^\n\r]{0,30}?\(?\s*(` + login + `)\s*\)?`)

	trailingPunctRe = regexp.MustCompile(`[/)\].,;]+$`)
)

// reservedSegments are GitHub route segments that never start a repository
// name (github.com/owner/issues is a page under owner, not a repo).
var reservedSegments = map[string]bool{
	"issues":   true,
	"pulls":    true,
	"pull":     true,
	"blob":     true,
	"tree":     true,
	"releases": true,
	"actions":  true,
}

// matcher is one extraction heuristic: it scans text and feeds candidates
// into the shared accumulator.
type matcher func(text string, acc *accumulator)

// passes are run unconditionally in fixed order. Running all of them
// (rather than short-circuiting on first success) maximizes recall for
// resumes that mix formats; the dedup key prevents double-counting.
var passes = []matcher{
	matchProtocolURLs,
	matchBareDomains,
	matchLabeledMentions,
	matchLineAtMentions,
	matchProximity,
}

// accumulator deduplicates candidates across passes. The first pass to
// observe an identity key wins; later duplicates are discarded even when
// they would have carried a different confidence.
type accumulator struct {
	seen       map[string]bool
	candidates []model.Candidate
}

func (a *accumulator) add(c model.Candidate) {
	key := c.IdentityKey()
	if a.seen[key] {
		return
	}
	a.seen[key] = true
	a.candidates = append(a.candidates, c)
}

// Candidates extracts GitHub identity candidates from cleaned text. The
// returned sequence is ordered by pass, then by position in the text, and
// contains at most one candidate per identity key.
func Candidates(text string) []model.Candidate {
	if text == "" {
		return nil
	}

	acc := &accumulator{seen: make(map[string]bool)}
	for _, pass := range passes {
		pass(text, acc)
	}
	return acc.candidates
}

func urlCandidate(owner, rest string) model.Candidate {
	repo := trailingPunctRe.ReplaceAllString(rest, "")
	if seg, _, _ := strings.Cut(repo, "/"); reservedSegments[strings.ToLower(seg)] {
		repo = ""
	}
	c := model.Candidate{
		Kind:       model.KindUser,
		Owner:      owner,
		URL:        "https://github.com/" + owner,
		Confidence: confProfileURL,
	}
	if repo != "" {
		c.Kind = model.KindRepo
		c.Repo = repo
		c.URL += "/" + repo
		c.Confidence = confRepoURL
	}
	return c
}

func matchProtocolURLs(text string, acc *accumulator) {
	for _, m := range protocolURLRe.FindAllStringSubmatch(text, -1) {
		acc.add(urlCandidate(m[1], m[2]))
	}
}

// matchBareDomains catches protocol-less mentions the URL pass cannot see.
// It rescans full URLs too and relies on the dedup key to avoid
// double-counting them.
func matchBareDomains(text string, acc *accumulator) {
	for _, m := range bareDomainRe.FindAllStringSubmatch(text, -1) {
		acc.add(urlCandidate(m[1], m[2]))
	}
}

// matchLabeledMentions handles explicit labels like "GitHub: jdoe" or
// "github - @jdoe". Repo names are never inferred from this pattern.
func matchLabeledMentions(text string, acc *accumulator) {
	for _, m := range labeledRe.FindAllStringSubmatch(text, -1) {
		acc.add(model.Candidate{
			Kind:       model.KindUser,
			Owner:      m[1],
			URL:        "https://github.com/" + m[1],
			Confidence: confLabeled,
		})
	}
}

// matchLineAtMentions scans lines mentioning github for @login tokens.
func matchLineAtMentions(text string, acc *accumulator) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), "github") {
			continue
		}
		for _, m := range atMentionRe.FindAllStringSubmatch(line, -1) {
			acc.add(model.Candidate{
				Kind:       model.KindUser,
				Owner:      m[1],
				URL:        "https://github.com/" + m[1],
				Confidence: confAtMention,
			})
		}
	}
}

// matchProximity is the last-resort pass for formats nothing else catches,
// e.g. "GitHub (jdoe)". Occurrences of "github.com" are URL mentions owned
// by the first two passes; matching them here would capture the "com"
// token, so they are skipped outright.
func matchProximity(text string, acc *accumulator) {
	for _, idx := range proximityRe.FindAllStringSubmatchIndex(text, -1) {
		after := text[idx[0]+len("github"):]
		if len(after) >= 4 && strings.EqualFold(after[:4], ".com") {
			continue
		}
		owner := text[idx[2]:idx[3]]
		if owner == "" {
			continue
		}
		acc.add(model.Candidate{
			Kind:       model.KindUser,
			Owner:      owner,
			URL:        "https://github.com/" + owner,
			Confidence: confProximity,
		})
	}
}
