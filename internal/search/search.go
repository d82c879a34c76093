// Package search ranks tasks against a fuzzy query.
package search

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"tood/internal/cursor"
)

// Candidate is one rankable item. Index is its position in the task list.
type Candidate struct {
	Index int
	Text  string
}

// Match is a candidate that matched the query. Positions are the byte
// offsets into Text that matched and only drive highlighting.
type Match struct {
	Text      string
	Index     int
	Score     int
	Positions []int
}

type candidates []Candidate

func (c candidates) String(i int) string { return c[i].Text }
func (c candidates) Len() int            { return len(c) }

// Rank returns the candidates matching query, best score first. Equal
// scores keep the order of cands. An empty query matches everything in
// order.
func Rank(query string, cands []Candidate) []Match {
	if query == "" {
		out := make([]Match, len(cands))
		for i, c := range cands {
			out[i] = Match{Text: c.Text, Index: c.Index}
		}
		return out
	}

	found := fuzzy.FindFrom(query, candidates(cands))
	out := make([]Match, 0, len(found))
	for _, f := range found {
		c := cands[f.Index]
		out = append(out, Match{
			Text:      c.Text,
			Index:     c.Index,
			Score:     f.Score,
			Positions: f.MatchedIndexes,
		})
	}
	// fuzzy's own ordering is not stable for equal scores.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// Results is the fuzzy result list: the current matches and a wrapping
// cursor over them.
type Results struct {
	Query   string
	Matches []Match
	Cursor  cursor.Cursor
}

func NewResults() Results {
	return Results{Cursor: cursor.New(0, cursor.Wrap)}
}

// Update re-ranks, re-bounds the cursor and moves it to the best match.
func (r *Results) Update(query string, cands []Candidate) {
	r.Query = query
	r.Matches = Rank(query, cands)
	r.Cursor.UpdateBoundary(len(r.Matches))
	r.Cursor.First()
}

func (r Results) Selected() (Match, bool) {
	i, ok := r.Cursor.Selected()
	if !ok {
		return Match{}, false
	}
	return r.Matches[i], true
}

func (r *Results) Reset() {
	*r = NewResults()
}
