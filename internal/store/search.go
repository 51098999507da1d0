package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/ziwei/internal/model"
)

// SearchParams holds parameters for searching archived charts.
type SearchParams struct {
	Query string
	Limit int
}

// Match is one chunk that matched a search query.
type Match struct {
	Palace string `json:"palace,omitempty"`
	Branch int    `json:"branch"`
	Text   string `json:"text"`
}

// SearchResult is a chart with the chunks that matched.
type SearchResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	LifePalace string  `json:"life_palace"`
	Bureau     string  `json:"bureau"`
	Matches    []Match `json:"matches"`
}

// Search finds live charts whose name or chunk text contains the query substring.
// Space-separated terms must all appear in the same chunk.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	terms := strings.Fields(p.Query)
	if len(terms) == 0 {
		return nil, fmt.Errorf("search: empty query")
	}

	where := []string{"m.deleted_at IS NULL"}
	args := []interface{}{"%" + p.Query + "%"}
	var like []string
	for _, t := range terms {
		like = append(like, "c.text LIKE ?")
		args = append(args, "%"+t+"%")
	}
	where = append(where, "(m.name LIKE ? OR ("+strings.Join(like, " AND ")+"))")

	query := fmt.Sprintf(`
		SELECT m.id, m.name, m.life_palace, m.bureau, c.palace, c.branch, c.text
		FROM charts m
		INNER JOIN chunks c ON c.chart_id = m.id
		WHERE %s
		ORDER BY m.created_at DESC, m.id DESC, c.seq`, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	index := map[string]int{}
	for rows.Next() {
		var r SearchResult
		var m Match
		if err := rows.Scan(&r.ID, &r.Name, &r.LifePalace, &r.Bureau, &m.Palace, &m.Branch, &m.Text); err != nil {
			return nil, err
		}
		i, ok := index[r.ID]
		if !ok {
			if len(results) == limit {
				continue
			}
			i = len(results)
			index[r.ID] = i
			results = append(results, r)
		}
		if nameOnly(r.Name, p.Query, m.Text, terms) {
			continue
		}
		results[i].Matches = append(results[i].Matches, m)
	}
	return results, rows.Err()
}

// nameOnly reports whether a row was returned by the name clause alone.
func nameOnly(name, query, text string, terms []string) bool {
	if !strings.Contains(name, query) {
		return false
	}
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// String renders a match as "命宮(卯): text". Interpretation text outside any
// palace is labelled "總論".
func (m Match) String() string {
	if m.Branch < 0 || m.Branch >= len(model.Branches) {
		if m.Palace == "" {
			return "總論: " + m.Text
		}
		return m.Palace + ": " + m.Text
	}
	return m.Palace + "(" + model.Branches[m.Branch] + "): " + m.Text
}
