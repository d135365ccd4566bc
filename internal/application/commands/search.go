package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pictag/internal/application"
	"pictag/internal/domain"
)

// SearchResult contains the pictures matching a tag query
type SearchResult struct {
	Include []string
	Exclude []string
	PIDs    []int64
	Message string
}

// SearchCommand finds pictures carrying every include tag and none of the
// exclude tags
type SearchCommand struct {
	catalog *application.Catalog
	Include []string
	Exclude []string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(catalog *application.Catalog, include, exclude []string) *SearchCommand {
	return &SearchCommand{
		catalog: catalog,
		Include: include,
		Exclude: exclude,
	}
}

// Validate checks the command arguments
func (c *SearchCommand) Validate() error {
	if len(c.Include) == 0 {
		return &application.ValidationError{
			Field:   "include",
			Message: "at least one include tag is required",
		}
	}
	return nil
}

// Execute runs the query
func (c *SearchCommand) Execute(ctx context.Context) (*SearchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pids, err := c.catalog.Search(c.Include, c.Exclude)
	if err != nil {
		return nil, err
	}

	query := strings.Join(c.Include, " ")
	if len(c.Exclude) > 0 {
		query += " -" + strings.Join(c.Exclude, " -")
	}
	return &SearchResult{
		Include: c.Include,
		Exclude: c.Exclude,
		PIDs:    pids,
		Message: fmt.Sprintf("%d pictures match %s", len(pids), query),
	}, nil
}

// TagMatch is a node name scored against a fuzzy query
type TagMatch struct {
	Name        string
	EnglishName string
	MatchedText string // the name, English name or synonym that matched
	Score       int
}

// FindTagsCommand fuzzy-matches nodes by name, English name and synonyms
type FindTagsCommand struct {
	catalog *application.Catalog
	Query   string
	Limit   int
}

// NewFindTagsCommand creates a new FindTagsCommand
func NewFindTagsCommand(catalog *application.Catalog, query string, limit int) *FindTagsCommand {
	return &FindTagsCommand{
		catalog: catalog,
		Query:   query,
		Limit:   limit,
	}
}

// Execute runs the match and returns scored, sorted results
func (c *FindTagsCommand) Execute(ctx context.Context) ([]TagMatch, error) {
	query := strings.TrimPrefix(c.Query, domain.TagMarker)
	if len(query) < 1 {
		return nil, nil
	}

	snap := c.catalog.Ontology().Snapshot()
	records := make([]domain.TagRecord, 0, len(snap.Tags))
	for _, rec := range snap.Tags {
		records = append(records, rec)
	}

	matches := FuzzySort(records, query)
	if c.Limit > 0 && len(matches) > c.Limit {
		matches = matches[:c.Limit]
	}
	return matches, nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		// Bonus if it starts with query
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if bytes appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '_' || target[i-1] == '-') {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// FuzzySort scores records against query and sorts matches by relevance,
// then by name
func FuzzySort(records []domain.TagRecord, query string) []TagMatch {
	scored := make([]TagMatch, 0, len(records))

	for _, r := range records {
		best := TagMatch{Name: r.Name, EnglishName: r.EnglishName}
		candidates := append([]string{strings.TrimPrefix(r.Name, domain.TagMarker), r.EnglishName}, r.Synonyms...)
		for _, text := range candidates {
			if s := FuzzyScore(strings.TrimPrefix(text, domain.TagMarker), query); s > best.Score {
				best.Score = s
				best.MatchedText = text
			}
		}
		if best.Score > 0 {
			scored = append(scored, best)
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Name < scored[j].Name
	})

	return scored
}
