package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/quicklink/internal/dirindex"
	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

type stubLister struct {
	items []domain.ResultItem
	err   error
	calls []string
}

func (s *stubLister) ListFiles(_ context.Context, src dirindex.Source, max int) ([]domain.ResultItem, error) {
	s.calls = append(s.calls, fmt.Sprintf("list:%s:%d", src.Path, max))
	return s.items, s.err
}

func (s *stubLister) Search(_ context.Context, src dirindex.Source, query string, max int) ([]domain.ResultItem, error) {
	s.calls = append(s.calls, fmt.Sprintf("search:%s:%s:%d", src.Path, query, max))
	return s.items, s.err
}

func manyItems(n int) []domain.StoredItem {
	out := make([]domain.StoredItem, n)
	for i := range out {
		out[i] = domain.StoredItem{ID: fmt.Sprint(i), Title: fmt.Sprintf("item %d", i), Value: fmt.Sprintf("https://example.com/%d", i)}
	}
	return out
}

func TestResolve_NeverExceedsLimit(t *testing.T) {
	r := New(nil, nil, Options{}, logger.Nop())
	items := manyItems(20)

	for _, q := range []string{"", "item", "example", "/"} {
		for _, limit := range []int{0, 1, 3, 6, 10} {
			resp := r.Resolve(context.Background(), Request{Query: q, Items: items, IncludeBuiltins: true, Limit: limit})
			want := limit
			if want <= 0 {
				want = domain.DefaultResultLimit
			}
			assert.LessOrEqual(t, len(resp.Results), want, "query %q limit %d", q, limit)
		}
	}
}

func TestResolve_BrowseBuiltinsNeverDisplaceItems(t *testing.T) {
	r := New(nil, nil, Options{}, logger.Nop())

	resp := r.Resolve(context.Background(), Request{Items: manyItems(8), IncludeBuiltins: true})
	require.Len(t, resp.Results, 6)
	for _, res := range resp.Results {
		assert.NotEqual(t, domain.ListInternal, res.Item.Kind)
	}
}

func TestResolve_BrowseOrderIsNonIncreasing(t *testing.T) {
	items := manyItems(5)
	usage := fakeUsage{}
	for i, it := range items {
		usage[it.UsageKey()] = (i * 7) % 5
	}
	r := New(usage, nil, Options{}, logger.Nop())

	resp := r.Resolve(context.Background(), Request{Items: items})
	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].UsageScore, resp.Results[i].UsageScore)
	}
}

func TestResolve_BrowseScenarioCounts(t *testing.T) {
	items := []domain.StoredItem{
		{ID: "1", Title: "five", Value: "a"},
		{ID: "2", Title: "zero", Value: "b"},
		{ID: "3", Title: "two", Value: "c"},
	}
	usage := fakeUsage{"five|a": 5, "zero|b": 0, "two|c": 2}
	r := New(usage, nil, Options{}, logger.Nop())

	resp := r.Resolve(context.Background(), Request{Items: items})
	assert.Equal(t, domain.ModeBrowse, resp.Mode)
	assert.Equal(t, []string{"five", "two", "zero"}, titles(resp.Results))
}

func TestResolve_FilterTextScores(t *testing.T) {
	items := []domain.StoredItem{
		{Title: "Repo", Value: "https://github.com/me"},
		{Title: "GitHub", Value: "github.com"},
	}
	r := New(nil, nil, Options{}, logger.Nop())

	resp := r.Resolve(context.Background(), Request{Query: "GIT", Items: items})
	require.Len(t, resp.Results, 2)

	assert.Equal(t, "GitHub", resp.Results[0].Item.DisplayTitle())
	assert.Equal(t, domain.ScorePrefixMatch, resp.Results[0].TextScore)
	assert.Equal(t, domain.ScoreSubstringMatch, resp.Results[1].TextScore)
}

func TestResolve_FilterUsageMonotonicity(t *testing.T) {
	items := []domain.StoredItem{
		{Title: "a", Value: "https://one.example"},
		{Title: "b", Value: "https://two.example"},
	}
	usage := fakeUsage{"b|https://two.example": 3}
	r := New(usage, nil, Options{}, logger.Nop())

	resp := r.Resolve(context.Background(), Request{Query: "example", Items: items})
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "b", resp.Results[0].Item.Title)
	assert.Equal(t, 0.5+2.0, resp.Results[0].Score)
	assert.Equal(t, 0.5, resp.Results[1].Score)
}

func TestResolve_BuiltinsGetNoUsageBoost(t *testing.T) {
	usage := fakeUsage{"internal|internal:settings": 100}
	r := New(usage, nil, Options{}, logger.Nop())

	resp := r.Resolve(context.Background(), Request{Query: "settings", IncludeBuiltins: true})
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 0.0, resp.Results[0].UsageScore)
	assert.Equal(t, domain.ScorePrefixMatch, resp.Results[0].Score)
}

func TestResolve_Fallbacks(t *testing.T) {
	r := New(nil, nil, Options{SearchURL: "https://s.example/?q={query}"}, logger.Nop())

	resp := r.Resolve(context.Background(), Request{Query: "xyz-no-match"})
	require.Len(t, resp.Results, 1)
	row := resp.Results[0].Item
	assert.Equal(t, domain.ListSearchSuggestion, row.Kind)
	assert.Equal(t, "xyz-no-match", row.Value)
	assert.Equal(t, "https://s.example/?q={query}", row.SearchURL)
	assert.Equal(t, "https://s.example/?q=xyz-no-match", row.Action().Payload)

	resp = r.Resolve(context.Background(), Request{Query: "> shutdown /s"})
	require.Len(t, resp.Results, 1)
	row = resp.Results[0].Item
	assert.Equal(t, domain.ListExecuteSuggestion, row.Kind)
	assert.Equal(t, "shutdown /s", row.Value)
}

func TestResolve_InvocationUsesListOrSearch(t *testing.T) {
	lister := &stubLister{items: []domain.ResultItem{{Path: "/p/a.md", DisplayName: "a.md"}}}
	r := New(nil, lister, Options{}, logger.Nop())
	cmds := []domain.UserCommand{domain.NewDirectoryCommand("/docs", "/p", "code {item.path}")}

	r.Resolve(context.Background(), Request{Query: "/docs", Commands: cmds, Limit: 4})
	r.Resolve(context.Background(), Request{Query: "/docs   ", Commands: cmds, Limit: 4})
	r.Resolve(context.Background(), Request{Query: "/docs a b", Commands: cmds, Limit: 4})

	assert.Equal(t, []string{"list:/p:4", "list:/p:4", "search:/p:a b:4"}, lister.calls)
}

func TestResolve_DirectoryFailureDegrades(t *testing.T) {
	lister := &stubLister{err: context.Canceled}
	r := New(nil, lister, Options{}, logger.Nop())
	cmds := []domain.UserCommand{domain.NewDirectoryCommand("/docs", "/p", "x")}

	resp := r.Resolve(context.Background(), Request{Query: "/docs readme", Commands: cmds})
	assert.Equal(t, domain.ModeInvocation, resp.Mode)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestResolve_MalformedCommandYieldsNothing(t *testing.T) {
	lister := &stubLister{err: errors.New("should not be called")}
	r := New(nil, lister, Options{}, logger.Nop())
	cmds := []domain.UserCommand{{Prefix: "/broken", Source: domain.SourceDirectory}}

	resp := r.Resolve(context.Background(), Request{Query: "/broken", Commands: cmds})
	assert.Equal(t, domain.ModeInvocation, resp.Mode)
	assert.Empty(t, resp.Results)
	assert.Empty(t, lister.calls)
}

func TestResolve_StaticResultsCarryCommandSettings(t *testing.T) {
	cmd := domain.UserCommand{
		Prefix:          "/ssh",
		Source:          domain.SourceStatic,
		SourceConfig:    domain.SourceConfig{Items: []string{"prod", "staging"}},
		ExecuteTemplate: "ssh {item.name}",
		Icon:            domain.IconWeb,
		OpenInTerminal:  true,
	}
	r := New(nil, nil, Options{}, logger.Nop())

	resp := r.Resolve(context.Background(), Request{Query: "/ssh", Commands: []domain.UserCommand{cmd}})
	require.Len(t, resp.Results, 2)

	row := resp.Results[0].Item
	assert.Equal(t, "🌐", row.Icon())
	assert.Equal(t, domain.Action{Type: domain.ActionExecuteInTerminal, Payload: "ssh prod", HideWindow: true}, row.Action())
}

func TestResolve_IsPure(t *testing.T) {
	usage := fakeUsage{}
	r := New(usage, nil, Options{}, logger.Nop())

	for i := 0; i < 3; i++ {
		r.Resolve(context.Background(), Request{Query: "item", Items: manyItems(3)})
	}
	assert.Empty(t, usage)
}
