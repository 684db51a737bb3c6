package clustering

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"contentops/internal/services"
	"contentops/internal/textutil"
)

// OverlapPercentage returns the share of the proposal's source stories that
// the cluster also contains, rounded to the nearest integer. The proposal set
// is the denominator: 100 means the proposal is fully covered already. An
// empty proposal set yields 0.
func OverlapPercentage(clusterStories, proposalStories []int64) int {
	proposal := toSet(proposalStories)
	if len(proposal) == 0 {
		return 0
	}
	cluster := toSet(clusterStories)
	shared := 0
	for id := range proposal {
		if _, ok := cluster[id]; ok {
			shared++
		}
	}
	return int(math.Round(float64(shared) / float64(len(proposal)) * 100))
}

// ValidateClusters checks oracle output: relevance within 0..100, every story
// id known, and no story placed in two clusters.
func ValidateClusters(clusters []Cluster, stories []Story) error {
	known := storyIndex(stories)
	owner := make(map[int64]int, len(stories))
	ids := make(map[string]struct{}, len(clusters))
	for i, c := range clusters {
		label := clusterLabel(c, i)
		if strings.TrimSpace(c.Theme) == "" {
			return services.Validation("clustering", "validate clusters", "%s has no theme", label)
		}
		if c.RelevanceScore < 0 || c.RelevanceScore > 100 {
			return services.Validation("clustering", "validate clusters", "%s relevance score %d outside 0..100", label, c.RelevanceScore)
		}
		if len(c.StoryIDs) == 0 {
			return services.Validation("clustering", "validate clusters", "%s has no stories", label)
		}
		if c.ID != "" {
			if _, dup := ids[c.ID]; dup {
				return services.Validation("clustering", "validate clusters", "cluster id %q used twice", c.ID)
			}
			ids[c.ID] = struct{}{}
		}
		for _, id := range c.StoryIDs {
			if _, ok := known[id]; !ok {
				return services.Validation("clustering", "validate clusters", "%s references unknown story %d", label, id)
			}
			if prev, taken := owner[id]; taken && prev != i {
				return services.Validation("clustering", "validate clusters", "story %d appears in %s and %s", id, clusterLabel(clusters[prev], prev), label)
			}
			owner[id] = i
		}
	}
	return nil
}

// DetectDuplicates returns a copy of clusters with SimilarProposals filled in.
// Archived and rejected proposals are ignored; matches with zero overlap are
// dropped. Matches sort by overlap descending, then proposal id.
func DetectDuplicates(clusters []Cluster, proposals []Proposal) []Cluster {
	comparable := make([]Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.Status.Comparable() {
			comparable = append(comparable, p)
		}
	}
	out := make([]Cluster, len(clusters))
	for i, c := range clusters {
		c.SimilarProposals = nil
		themeText := c.Theme + " " + strings.Join(c.Keywords, " ")
		for _, p := range comparable {
			overlap := OverlapPercentage(c.StoryIDs, p.SourceStoryIDs)
			if overlap <= 0 {
				continue
			}
			c.SimilarProposals = append(c.SimilarProposals, SimilarProposal{
				ProposalID:        p.ID,
				Title:             p.Title,
				Status:            p.Status,
				OverlapPercentage: overlap,
				ThemeSimilarity:   roundTo(textutil.TextSimilarity(themeText, p.ClusterTheme+" "+p.Title), 2),
			})
		}
		sort.SliceStable(c.SimilarProposals, func(a, b int) bool {
			left, right := c.SimilarProposals[a], c.SimilarProposals[b]
			if left.OverlapPercentage != right.OverlapPercentage {
				return left.OverlapPercentage > right.OverlapPercentage
			}
			return left.ProposalID < right.ProposalID
		})
		out[i] = c
	}
	return out
}

// SelectForGeneration returns the selected clusters in the order the oracle
// produced them, truncated to maxProposals. An empty selection means every
// cluster; maxProposals <= 0 means no cap. Unknown ids are a validation error.
func SelectForGeneration(clusters []Cluster, selectedIDs []string, maxProposals int) ([]Cluster, error) {
	var selected []Cluster
	if len(selectedIDs) == 0 {
		selected = append(selected, clusters...)
	} else {
		wanted := make(map[string]struct{}, len(selectedIDs))
		for _, id := range selectedIDs {
			wanted[strings.TrimSpace(id)] = struct{}{}
		}
		for _, c := range clusters {
			if _, ok := wanted[c.ID]; ok {
				selected = append(selected, c)
				delete(wanted, c.ID)
			}
		}
		if len(wanted) > 0 {
			missing := make([]string, 0, len(wanted))
			for id := range wanted {
				missing = append(missing, id)
			}
			sort.Strings(missing)
			return nil, services.Validation("clustering", "select clusters", "unknown cluster ids: %s", strings.Join(missing, ", "))
		}
	}
	if maxProposals > 0 && len(selected) > maxProposals {
		selected = selected[:maxProposals]
	}
	return selected, nil
}

// AssignIDs names every cluster after its story set, replacing any id the
// oracle supplied. The same grouping keeps its id across oracle runs no matter
// where it lands in the output, so a selection made against one preview cannot
// resolve to different stories later.
func AssignIDs(clusters []Cluster) []Cluster {
	out := make([]Cluster, len(clusters))
	for i, c := range clusters {
		c.ID = ClusterID(c.StoryIDs)
		out[i] = c
	}
	return out
}

// ClusterID derives a cluster id from its story ids; order does not matter.
func ClusterID(storyIDs []int64) string {
	ids := append([]int64(nil), storyIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	hasher := sha256.New()
	for _, id := range ids {
		_, _ = hasher.Write([]byte(strconv.FormatInt(id, 10)))
		_, _ = hasher.Write([]byte{0})
	}
	return "cluster-" + hex.EncodeToString(hasher.Sum(nil))[:12]
}

func clusterLabel(c Cluster, index int) string {
	if c.ID != "" {
		return fmt.Sprintf("cluster %q", c.ID)
	}
	return fmt.Sprintf("cluster #%d", index+1)
}

func toSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
