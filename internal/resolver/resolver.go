package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/dirindex"
	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/metrics"
)

// UsageScorer returns the usage boost for a key. *usage.Tracker implements it.
type UsageScorer interface {
	Score(key string) float64
}

// DirectoryLister enumerates directory commands. *dirindex.Indexer
// implements it.
type DirectoryLister interface {
	ListFiles(ctx context.Context, src dirindex.Source, max int) ([]domain.ResultItem, error)
	Search(ctx context.Context, src dirindex.Source, query string, max int) ([]domain.ResultItem, error)
}

// Request is one query against a snapshot of the live collections.
type Request struct {
	Query           string
	Items           []domain.StoredItem
	Commands        []domain.UserCommand
	IncludeBuiltins bool // Browse fills with built-ins, filter searches them
	Limit           int  // <= 0 means domain.DefaultResultLimit
}

// Response is the ordered result list and the mode that produced it.
type Response struct {
	Mode    domain.QueryMode      `json:"mode"`
	Results []domain.RankedResult `json:"results"`
}

// Options configures a Resolver.
type Options struct {
	SearchURL string // template containing {query}
}

// Resolver turns a query into ranked rows. It never records usage.
type Resolver struct {
	usage     UsageScorer
	dirs      DirectoryLister
	searchURL string
	logger    logger.Logger
}

// New creates a resolver. A nil scorer ranks everything at zero usage; a nil
// lister makes directory commands return nothing.
func New(usage UsageScorer, dirs DirectoryLister, opts Options, log logger.Logger) *Resolver {
	if opts.SearchURL == "" {
		opts.SearchURL = domain.DefaultSearchURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		usage:     usage,
		dirs:      dirs,
		searchURL: opts.SearchURL,
		logger:    log.Named("resolver"),
	}
}

// Resolve classifies req.Query and builds the result list for its mode.
func (r *Resolver) Resolve(ctx context.Context, req Request) Response {
	start := time.Now()
	limit := req.Limit
	if limit <= 0 {
		limit = domain.DefaultResultLimit
	}

	q := domain.ParseQuery(req.Query, req.Commands)

	var results []domain.RankedResult
	switch q.Mode {
	case domain.ModeBrowse:
		results = r.browse(req, limit)
	case domain.ModeSuggestion:
		results = suggest(q.Text, req.Commands, limit)
	case domain.ModeInvocation:
		results = r.invoke(ctx, q, limit)
	default:
		results = r.filter(q.Text, req.Items, req.IncludeBuiltins, limit)
	}

	metrics.ObserveQuery(string(q.Mode), time.Since(start))

	if results == nil {
		results = []domain.RankedResult{}
	}
	return Response{Mode: q.Mode, Results: results}
}

func (r *Resolver) score(key string) float64 {
	if r.usage == nil || key == "" {
		return 0
	}
	return r.usage.Score(key)
}

// browse ranks stored items by usage alone, then tops up with built-ins.
func (r *Resolver) browse(req Request, limit int) []domain.RankedResult {
	ranked := make([]domain.RankedResult, 0, len(req.Items))
	for _, it := range req.Items {
		s := r.score(it.UsageKey())
		ranked = append(ranked, domain.RankedResult{
			Item:       domain.FromStoredItem(it),
			UsageScore: s,
			Score:      s,
		})
	}
	domain.SortRanked(ranked)
	ranked = domain.Truncate(ranked, limit)

	if req.IncludeBuiltins {
		for _, b := range domain.Builtins() {
			if len(ranked) >= limit {
				break
			}
			ranked = append(ranked, domain.RankedResult{Item: b})
		}
	}
	return ranked
}

// suggest lists commands whose prefix contains text.
func suggest(text string, commands []domain.UserCommand, limit int) []domain.RankedResult {
	var out []domain.RankedResult
	for _, c := range commands {
		if text != "" && !strings.Contains(strings.ToLower(c.Prefix), text) {
			continue
		}
		out = append(out, domain.RankedResult{Item: domain.SuggestionFor(c)})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// invoke expands the matched command against its source.
func (r *Resolver) invoke(ctx context.Context, q domain.Query, limit int) []domain.RankedResult {
	cmd := q.Command
	if cmd == nil {
		return nil
	}
	if err := cmd.Validate(); err != nil {
		r.logger.Debug("malformed command yields no results",
			logger.String("prefix", cmd.Prefix),
			logger.Error(err))
		return nil
	}

	var found []domain.ResultItem
	switch cmd.Source {
	case domain.SourceDirectory:
		found = r.listDirectory(ctx, *cmd, q.Text, limit)
	case domain.SourceStatic:
		found = staticResults(*cmd, q.Text, limit)
	}

	out := make([]domain.RankedResult, 0, len(found))
	for _, it := range found {
		out = append(out, domain.RankedResult{Item: domain.ResultRow(it)})
	}
	return out
}

func (r *Resolver) listDirectory(ctx context.Context, cmd domain.UserCommand, text string, limit int) []domain.ResultItem {
	if r.dirs == nil {
		return nil
	}

	src := dirindex.SourceFor(cmd)

	var (
		items []domain.ResultItem
		err   error
	)
	if text == "" {
		items, err = r.dirs.ListFiles(ctx, src, limit)
	} else {
		items, err = r.dirs.Search(ctx, src, text, limit)
	}
	if err != nil {
		r.logger.Debug("directory listing abandoned",
			logger.String("prefix", cmd.Prefix),
			logger.Error(err))
		return nil
	}
	return domain.Truncate(items, limit)
}

func staticResults(cmd domain.UserCommand, text string, limit int) []domain.ResultItem {
	needle := strings.ToLower(text)

	var out []domain.ResultItem
	for _, entry := range cmd.SourceConfig.Items {
		if needle != "" && !strings.Contains(strings.ToLower(entry), needle) {
			continue
		}
		out = append(out, domain.StaticResult(cmd, entry))
		if len(out) >= limit {
			break
		}
	}
	return out
}

// filter scores every matching row; stored items add their usage boost,
// built-ins rank on text alone. No match yields a single fallback row.
func (r *Resolver) filter(text string, items []domain.StoredItem, builtins bool, limit int) []domain.RankedResult {
	var ranked []domain.RankedResult

	for _, it := range items {
		row := domain.FromStoredItem(it)
		if !row.Matches(text) {
			continue
		}
		ts := domain.TextScore(row.DisplayValue(), text)
		us := r.score(row.UsageKey())
		ranked = append(ranked, domain.RankedResult{Item: row, TextScore: ts, UsageScore: us, Score: ts + us})
	}

	if builtins {
		for _, b := range domain.Builtins() {
			if !b.Matches(text) {
				continue
			}
			ts := domain.TextScore(b.DisplayValue(), text)
			ranked = append(ranked, domain.RankedResult{Item: b, TextScore: ts, Score: ts})
		}
	}

	if len(ranked) == 0 {
		return []domain.RankedResult{{Item: r.fallback(text)}}
	}

	domain.SortRanked(ranked)
	return domain.Truncate(ranked, limit)
}

func (r *Resolver) fallback(text string) domain.ListItem {
	if strings.HasPrefix(text, domain.CommandSigil) {
		return domain.ExecuteSuggestion(text)
	}
	return domain.SearchSuggestion(text, r.searchURL)
}
