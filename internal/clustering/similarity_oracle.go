package clustering

import (
	"context"
	"fmt"
	"math"
	"strings"

	"contentops/internal/textutil"
)

const (
	defaultSimilarityThreshold = 0.35
	keywordCount               = 5
	hookLimit                  = 200
)

// SimilarityOracle clusters stories offline by TF-IDF cosine similarity. It
// is used when no LLM is configured and in tests; its proposal copy is
// assembled from the stories themselves.
type SimilarityOracle struct {
	Threshold float64
}

// NewSimilarityOracle returns an oracle using the default similarity threshold.
func NewSimilarityOracle() *SimilarityOracle {
	return &SimilarityOracle{Threshold: defaultSimilarityThreshold}
}

type workingCluster struct {
	stories []Story
	prints  []*textutil.Fingerprint
	centre  *textutil.Fingerprint
}

// PreviewClusters greedily assigns each story to the most similar existing
// cluster above the threshold, otherwise starts a new one. Input order is
// preserved within and across clusters.
func (o *SimilarityOracle) PreviewClusters(_ context.Context, req Request) (Preview, error) {
	threshold := o.Threshold
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}
	raw := make([]*textutil.Fingerprint, len(req.Stories))
	corpus := textutil.NewCorpus()
	for i, s := range req.Stories {
		raw[i] = textutil.NewFingerprint(storyText(s))
		corpus.Add(raw[i])
	}
	idf := corpus.IDF()

	var working []*workingCluster
	for i, s := range req.Stories {
		fp := raw[i].WithIDF(idf)
		if fp == nil {
			continue
		}
		best, bestScore := -1, threshold
		for j, wc := range working {
			if score := textutil.CosineSimilarity(fp, wc.centre); score >= bestScore {
				best, bestScore = j, score
			}
		}
		if best < 0 {
			working = append(working, &workingCluster{stories: []Story{s}, prints: []*textutil.Fingerprint{fp}, centre: fp})
			continue
		}
		wc := working[best]
		wc.stories = append(wc.stories, s)
		wc.prints = append(wc.prints, fp)
		wc.centre = textutil.Merge(wc.prints...)
	}

	largest := 0
	for _, wc := range working {
		largest = max(largest, len(wc.stories))
	}
	clusters := make([]Cluster, 0, len(working))
	for _, wc := range working {
		keywords := wc.centre.TopTerms(keywordCount)
		ids := make([]int64, 0, len(wc.stories))
		for _, s := range wc.stories {
			ids = append(ids, s.ID)
		}
		clusters = append(clusters, Cluster{
			Theme:             themeFor(keywords, wc.stories),
			Keywords:          keywords,
			RelevanceScore:    int(math.Round(float64(len(wc.stories)) / float64(largest) * 100)),
			StoryIDs:          ids,
			AudienceRelevance: fmt.Sprintf("%d related stories flagged recently", len(wc.stories)),
		})
	}
	return Preview{Stories: req.Stories, Clusters: clusters}, nil
}

// GenerateProposals builds plain proposal copy from each cluster's stories.
func (o *SimilarityOracle) GenerateProposals(_ context.Context, req GenerateRequest) ([]ProposalCopy, error) {
	stories := storyIndex(req.Stories)
	out := make([]ProposalCopy, 0, len(req.Clusters))
	for _, c := range req.Clusters {
		var lead Story
		var points, citations []string
		for _, id := range c.StoryIDs {
			s, ok := stories[id]
			if !ok {
				continue
			}
			if lead.ID == 0 {
				lead = s
			}
			points = append(points, strings.TrimSpace(s.Title))
			if s.URL != "" {
				citations = append(citations, s.URL)
			}
		}
		if lead.ID == 0 {
			continue
		}
		out = append(out, ProposalCopy{
			ClusterID:             c.ID,
			Title:                 c.Theme,
			Hook:                  textutil.Truncate(textutil.PlainText(lead.Summary), hookLimit),
			AudienceCareStatement: c.AudienceRelevance,
			TalkingPoints:         points,
			ResearchCitations:     citations,
		})
	}
	return out, nil
}

func storyText(s Story) string {
	return s.Title + " " + s.Title + " " + textutil.PlainText(s.Summary)
}

func themeFor(keywords []string, stories []Story) string {
	if len(keywords) == 0 {
		return strings.TrimSpace(stories[0].Title)
	}
	n := min(len(keywords), 3)
	return textutil.HumanizeIdentifier(strings.Join(keywords[:n], " "))
}
