package catalog

import (
	"sort"

	"artref/internal/textutil"
)

// FacetCount is the number of artworks tagged with one facet value.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Stats summarizes the facets the study-room browser groups by.
type Stats struct {
	Artworks    int          `json:"artworks"`
	MissingYear int          `json:"missingYear"`
	Artists     []FacetCount `json:"artists"`
	Periods     []FacetCount `json:"periods"`
	Subjects    []FacetCount `json:"subjects"`
	Techniques  []FacetCount `json:"techniques"`
}

// ComputeStats counts facet values across artworks. Values are grouped by
// their case-folded key and shown with the first spelling seen. A value
// repeated within one artwork counts once.
func ComputeStats(artworks []Artwork) Stats {
	artists := newFacetCounter()
	periods := newFacetCounter()
	subjects := newFacetCounter()
	techniques := newFacetCounter()

	stats := Stats{Artworks: len(artworks)}
	for _, art := range artworks {
		if art.Year == nil {
			stats.MissingYear++
		}
		artists.add(art.Artist)
		periods.add(art.Periods...)
		subjects.add(art.Subjects...)
		techniques.add(art.Techniques...)
	}

	stats.Artists = artists.sorted()
	stats.Periods = periods.sorted()
	stats.Subjects = subjects.sorted()
	stats.Techniques = techniques.sorted()
	return stats
}

type facetCounter struct {
	display map[string]string
	counts  map[string]int
}

func newFacetCounter() *facetCounter {
	return &facetCounter{display: map[string]string{}, counts: map[string]int{}}
}

func (f *facetCounter) add(values ...string) {
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		key := textutil.FoldKey(value)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := f.display[key]; !ok {
			f.display[key] = value
		}
		f.counts[key]++
	}
}

// sorted orders by descending count, then by folded key.
func (f *facetCounter) sorted() []FacetCount {
	keys := make([]string, 0, len(f.counts))
	for key := range f.counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if f.counts[keys[i]] != f.counts[keys[j]] {
			return f.counts[keys[i]] > f.counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	out := make([]FacetCount, 0, len(keys))
	for _, key := range keys {
		out = append(out, FacetCount{Value: f.display[key], Count: f.counts[key]})
	}
	return out
}
