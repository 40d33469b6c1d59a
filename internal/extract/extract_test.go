package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/resume-intel/internal/model"
)

func TestCandidates_ProtocolURLs(t *testing.T) {
	t.Parallel()

	got := Candidates("Check out https://github.com/octocat and https://github.com/octocat/Hello-World")

	require.Len(t, got, 2)

	assert.Equal(t, model.KindUser, got[0].Kind)
	assert.Equal(t, "octocat", got[0].Owner)
	assert.Equal(t, "https://github.com/octocat", got[0].URL)
	assert.Equal(t, 0.99, got[0].Confidence)

	assert.Equal(t, model.KindRepo, got[1].Kind)
	assert.Equal(t, "octocat", got[1].Owner)
	assert.Equal(t, "Hello-World", got[1].Repo)
	assert.Equal(t, "https://github.com/octocat/Hello-World", got[1].URL)
	assert.Equal(t, 0.95, got[1].Confidence)
}

func TestCandidates_BareDomain(t *testing.T) {
	t.Parallel()

	got := Candidates("My code lives at github.com/jdoe93")

	require.Len(t, got, 1)
	assert.Equal(t, model.KindUser, got[0].Kind)
	assert.Equal(t, "jdoe93", got[0].Owner)
	assert.Equal(t, 0.99, got[0].Confidence)
}

func TestCandidates_WWWPrefix(t *testing.T) {
	t.Parallel()

	got := Candidates("https://www.github.com/jdoe93/tool")

	require.Len(t, got, 1)
	assert.Equal(t, model.KindRepo, got[0].Kind)
	assert.Equal(t, "jdoe93", got[0].Owner)
	assert.Equal(t, "tool", got[0].Repo)
}

func TestCandidates_LabeledMention(t *testing.T) {
	t.Parallel()

	got := Candidates("My github: @jdoe93")

	require.Len(t, got, 1)
	assert.Equal(t, model.KindUser, got[0].Kind)
	assert.Equal(t, "jdoe93", got[0].Owner)
	assert.Equal(t, 0.9, got[0].Confidence)
}

func TestCandidates_LabeledMentionVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"colon", "GitHub: jdoe93"},
		{"hyphen", "github - jdoe93"},
		{"en dash", "GitHub – jdoe93"},
		{"at sign", "GitHub @jdoe93"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Candidates(tt.input)
			require.NotEmpty(t, got)
			assert.Equal(t, "jdoe93", got[0].Owner)
			assert.Equal(t, 0.9, got[0].Confidence)
		})
	}
}

func TestCandidates_LineScopedAtMention(t *testing.T) {
	t.Parallel()

	// An @handle on a line mentioning github, without any label pattern
	// directly in front of it.
	text := "Contact\nfollow @jdoe93 for github links\nEmail: a@b.c"
	got := Candidates(text)

	var mention *model.Candidate
	for i := range got {
		if got[i].Owner == "jdoe93" {
			mention = &got[i]
		}
	}
	require.NotNil(t, mention)
	assert.Equal(t, 0.85, mention.Confidence)
}

func TestCandidates_ProximityFallback(t *testing.T) {
	t.Parallel()

	got := Candidates("GitHub (jdoe93)")

	require.Len(t, got, 1)
	assert.Equal(t, "jdoe93", got[0].Owner)
	assert.Equal(t, 0.6, got[0].Confidence)
}

func TestCandidates_ReservedSegments(t *testing.T) {
	t.Parallel()

	for _, seg := range []string{"issues", "pulls", "pull", "blob", "tree", "releases", "actions"} {
		got := Candidates("https://github.com/octocat/" + seg)
		require.Len(t, got, 1, "segment %s", seg)
		assert.Equal(t, model.KindUser, got[0].Kind, "segment %s", seg)
		assert.Equal(t, "octocat", got[0].Owner)
		assert.Empty(t, got[0].Repo)
	}
}

func TestCandidates_TrailingPunctuation(t *testing.T) {
	t.Parallel()

	got := Candidates("(see https://github.com/octocat/Hello-World).")

	require.Len(t, got, 1)
	assert.Equal(t, "Hello-World", got[0].Repo)
}

func TestCandidates_DedupAcrossPasses(t *testing.T) {
	t.Parallel()

	// The same login appears as a protocol URL and as an @mention; the
	// first pass to observe the key wins and keeps its confidence.
	text := "https://github.com/jdoe93\nGitHub: @jdoe93"
	got := Candidates(text)

	require.Len(t, got, 1)
	assert.Equal(t, 0.99, got[0].Confidence)
}

func TestCandidates_NoDuplicateIdentityKeys(t *testing.T) {
	t.Parallel()

	text := "github.com/a github.com/a/r https://github.com/a GitHub: @a\ngithub @b\nGitHub (c)"
	got := Candidates(text)

	seen := make(map[string]bool)
	for _, c := range got {
		key := c.IdentityKey()
		assert.False(t, seen[key], "duplicate identity key %s", key)
		seen[key] = true
	}
}

func TestCandidates_UserAndRepoCoexist(t *testing.T) {
	t.Parallel()

	got := Candidates("github.com/x and github.com/x/y")

	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].IdentityKey())
	assert.Equal(t, "x/y", got[1].IdentityKey())
}

func TestCandidates_Idempotent(t *testing.T) {
	t.Parallel()

	text := "github.com/jdoe93 and https://github.com/octocat/Hello-World\nGitHub: @mixed\nGitHub (low)"
	first := Candidates(text)
	second := Candidates(text)
	assert.Equal(t, first, second)
}

func TestCandidates_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Candidates(""))
	assert.Empty(t, Candidates("no git hosting mentioned here"))
}

func TestCandidates_AfterNormalization(t *testing.T) {
	t.Parallel()

	// A whitespace-mangled URL recovers as if unmangled.
	got := Candidates(Normalize("github . com /  octocat"))

	require.Len(t, got, 1)
	assert.Equal(t, "octocat", got[0].Owner)
	assert.Equal(t, 0.99, got[0].Confidence)
}
