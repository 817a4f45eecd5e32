package tools

import (
	"embed"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

//go:embed data/bd_pages.json
var pagesFS embed.FS

// SearchItem is one search hit.
type SearchItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchResult is the outcome of a content search.
type SearchResult struct {
	Items []SearchItem `json:"items"`
}

type page struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Snippet  string   `json:"snippet"`
	Keywords []string `json:"keywords"`
}

var pages = loadPages()

func loadPages() []page {
	raw, err := pagesFS.ReadFile("data/bd_pages.json")
	if err != nil {
		return nil
	}
	var doc struct {
		Pages []page `json:"pages"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc.Pages
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(s string) []string {
	return tokenRe.FindAllString(strings.ToLower(s), -1)
}

// scorePage weights title matches heavier than keyword matches, and keyword
// matches heavier than snippet matches.
func scorePage(tokens []string, p page) int {
	title := strings.ToLower(p.Title)
	snippet := strings.ToLower(p.Snippet)
	keywords := strings.ToLower(strings.Join(p.Keywords, " "))

	score := 0
	for _, tok := range tokens {
		switch {
		case strings.Contains(title, tok):
			score += 4
		case strings.Contains(keywords, tok):
			score += 3
		case strings.Contains(snippet, tok):
			score += 1
		}
	}
	return score
}

// Search looks up the curated Overheid pages dataset. Results are ordered by
// score, then by title for stability. When nothing matches, the full dataset
// is returned as a stable general set.
func Search(query string, k int) SearchResult {
	tokens := tokenize(strings.TrimSpace(query))

	type scored struct {
		score int
		item  SearchItem
	}

	var hits []scored
	for _, p := range pages {
		hits = append(hits, scored{
			score: scorePage(tokens, p),
			item:  SearchItem{Title: p.Title, URL: p.URL, Snippet: p.Snippet},
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return strings.ToLower(hits[i].item.Title) < strings.ToLower(hits[j].item.Title)
	})

	var items []SearchItem
	for _, h := range hits {
		if h.score > 0 {
			items = append(items, h.item)
		}
	}
	if len(items) == 0 {
		for _, p := range pages {
			items = append(items, SearchItem{Title: p.Title, URL: p.URL, Snippet: p.Snippet})
		}
	}

	if k < 1 {
		k = 5
	}
	if len(items) > k {
		items = items[:k]
	}
	return SearchResult{Items: items}
}
