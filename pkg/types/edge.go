package types

import "time"

// Relation type constants for graph edges.
const (
	RelHasGoal      = "has_goal"      // project → goal
	RelHasMilestone = "has_milestone" // goal → milestone
	RelHasTask      = "has_task"      // milestone → task
	RelHasPlan      = "has_plan"      // project → plan
	RelProduces     = "produces"      // task → output
	RelDocuments    = "documents"     // document → any entity
	RelScheduledFor = "scheduled_for" // event → task
)

// singleValuedRels are relations where "the" related entity is the most
// recently created edge. Older edges stay in place; readers resolve
// precedence with LatestEdges.
var singleValuedRels = map[string]bool{
	RelHasGoal:      true,
	RelHasMilestone: true,
	RelHasTask:      true,
}

// SingleValued reports whether rel is declared single-valued.
func SingleValued(rel string) bool {
	return singleValuedRels[rel]
}

// Edge represents a directed, typed relation between two entities.
type Edge struct {
	EdgeID    string // UUID v7, generated on creation.
	SrcKind   string
	SrcID     string
	DstKind   string
	DstID     string
	Rel       string // Relation name (has_milestone, produces, ...).
	ProjectID string
	CreatedAt time.Time
}

// LatestEdges builds the read-time precedence map for single-valued
// relations: for each dst_id the most recently created edge wins. Ties
// on created_at fall to the larger edge ID, which is time-ordered under
// UUID v7.
func LatestEdges(edges []*Edge) map[string]*Edge {
	latest := make(map[string]*Edge, len(edges))
	for _, e := range edges {
		cur, ok := latest[e.DstID]
		if !ok {
			latest[e.DstID] = e
			continue
		}
		if e.CreatedAt.After(cur.CreatedAt) ||
			(e.CreatedAt.Equal(cur.CreatedAt) && e.EdgeID > cur.EdgeID) {
			latest[e.DstID] = e
		}
	}
	return latest
}

// EdgeFilter narrows edge queries. Zero-valued fields are ignored; set
// fields combine with AND.
type EdgeFilter struct {
	SrcID     string
	DstID     string
	Rel       string
	ProjectID string
}
