// Package compose implements read-time composition of two modules by
// matching their Classification tables, resolving spec.md §9's Open
// Question in favor of "post-hoc merge is a new build pass, not a
// mutation" (spec §4.8).
package compose

import (
	"fmt"
	"sort"

	"github.com/inferdf/inferdf/internal/classify"
	"github.com/inferdf/inferdf/internal/module"
	"github.com/inferdf/inferdf/internal/rdf"
)

// MergePair names one resource from each module found to occupy
// structurally identical classification groups.
type MergePair struct {
	A rdf.ResourceID
	B rdf.ResourceID
}

// Plan is the output of Compose: which resource pairs should merge, and
// which resources appear in only one of the two input modules.
type Plan struct {
	Merges  []MergePair
	OnlyInA []rdf.ResourceID
	OnlyInB []rdf.ResourceID
}

// Compose computes a Plan from a and b's Classification tables. Two
// resources are mergeable iff the canonical signature of their
// classification group coincides (spec §4.8: "same layer, same refined
// neighbour-class multiset at fixpoint"). Within a shared signature,
// members are paired positionally by ascending resource id; any excess on
// either side is reported unchanged, since a differing group size under
// an identical signature means the two modules disagree on how many
// resources played that structural role and pairing beyond the shorter
// list would be a guess, not a derived fact.
func Compose(a, b *module.Module) (*Plan, error) {
	membersA := groupsBySignature(a)
	membersB := groupsBySignature(b)

	plan := &Plan{}
	seen := make(map[string]bool, len(membersA))
	for sig, la := range membersA {
		lb, ok := membersB[sig]
		if !ok {
			plan.OnlyInA = append(plan.OnlyInA, la...)
			continue
		}
		seen[sig] = true
		n := len(la)
		if len(lb) < n {
			n = len(lb)
		}
		for i := 0; i < n; i++ {
			plan.Merges = append(plan.Merges, MergePair{A: la[i], B: lb[i]})
		}
		if len(la) > n {
			plan.OnlyInA = append(plan.OnlyInA, la[n:]...)
		}
		if len(lb) > n {
			plan.OnlyInB = append(plan.OnlyInB, lb[n:]...)
		}
	}
	for sig, lb := range membersB {
		if !seen[sig] {
			plan.OnlyInB = append(plan.OnlyInB, lb...)
		}
	}

	sort.Slice(plan.Merges, func(i, j int) bool {
		if plan.Merges[i].A != plan.Merges[j].A {
			return plan.Merges[i].A < plan.Merges[j].A
		}
		return plan.Merges[i].B < plan.Merges[j].B
	})
	sort.Slice(plan.OnlyInA, func(i, j int) bool { return plan.OnlyInA[i] < plan.OnlyInA[j] })
	sort.Slice(plan.OnlyInB, func(i, j int) bool { return plan.OnlyInB[i] < plan.OnlyInB[j] })
	return plan, nil
}

func groupsBySignature(m *module.Module) map[string][]rdf.ResourceID {
	sigByGroup := make(map[rdf.GroupID]string, len(m.GroupByID))
	for _, e := range m.GroupByID {
		sigByGroup[e.Group] = string(e.Signature)
	}

	out := make(map[string][]rdf.ResourceID)
	for _, r := range m.Resources {
		if !r.HasClass {
			continue
		}
		sig, ok := sigByGroup[r.Class.Group]
		if !ok {
			continue
		}
		out[sig] = append(out[sig], r.ID)
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	}
	return out
}

// Apply materializes a Plan into a fresh Interpretation and Dataset
// holding the union of a and b's facts, with every pair in plan.Merges
// unified. It never mutates a or b — both are read-only decoded views —
// and always builds new resource ids, using the blank-node doc-scoping
// mechanism (spec §12) to give each module's structurally-anonymous
// resources their own namespace (docID 0 for a, 1 for b) so an id
// collision between the two inputs can never alias unrelated resources.
func Apply(a, b *module.Module, plan *Plan) (*rdf.Interpretation, *rdf.Dataset, error) {
	interp := rdf.NewInterpretation()
	dataset := rdf.NewDataset()

	remapA, err := rehydrateResources(interp, a, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("compose: rehydrate module a: %w", err)
	}
	remapB, err := rehydrateResources(interp, b, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("compose: rehydrate module b: %w", err)
	}

	for _, mp := range plan.Merges {
		// No graph rewrite is needed here: dataset is still empty at this
		// point (copyDataset below is what populates it), so no fact can yet
		// reference the loser id.
		if _, _, err := interp.Merge(remapA[mp.A], remapB[mp.B]); err != nil {
			return nil, nil, fmt.Errorf("compose: merge %v/%v: %w", mp.A, mp.B, err)
		}
	}

	if err := copyDataset(interp, dataset, a, remapA); err != nil {
		return nil, nil, fmt.Errorf("compose: copy module a facts: %w", err)
	}
	if err := copyDataset(interp, dataset, b, remapB); err != nil {
		return nil, nil, fmt.Errorf("compose: copy module b facts: %w", err)
	}

	return interp, dataset, nil
}

// rehydrateResources allocates one fresh resource per resource row in m,
// preferring InterpretIRI/InterpretLiteral (which fold in any additional
// terms the row lists, exactly reproducing sameAs-style multi-term
// resources) and falling back to a doc-scoped blank allocation for
// resources with neither an IRI nor a literal membership.
func rehydrateResources(interp *rdf.Interpretation, m *module.Module, docID uint32) (map[rdf.ResourceID]rdf.ResourceID, error) {
	remap := make(map[rdf.ResourceID]rdf.ResourceID, len(m.Resources))
	for _, r := range m.Resources {
		var newID rdf.ResourceID
		switch {
		case len(r.IRIs) > 0:
			newID = interp.InterpretIRI(m.IRIs[r.IRIs[0]].Text)
			for _, idx := range r.IRIs[1:] {
				alias := interp.InterpretIRI(m.IRIs[idx].Text)
				merged, _, err := interp.Merge(newID, alias)
				if err != nil {
					return nil, err
				}
				newID = merged
			}
		case len(r.LiteralIndexes) > 0:
			first := m.Literals[r.LiteralIndexes[0]]
			newID = interp.InterpretLiteral(first.Value, first.Variant, first.TypeValue)
			for _, idx := range r.LiteralIndexes[1:] {
				lit := m.Literals[idx]
				alias := interp.InterpretLiteral(lit.Value, lit.Variant, lit.TypeValue)
				merged, _, err := interp.Merge(newID, alias)
				if err != nil {
					return nil, err
				}
				newID = merged
			}
		default:
			newID = interp.InterpretBlank(docID, uint32(r.ID))
		}
		remap[r.ID] = interp.Representative(newID)
	}
	for _, r := range m.Resources {
		for _, other := range r.NE {
			if err := interp.SetNonEqual(remap[r.ID], remap[other]); err != nil {
				return nil, err
			}
		}
	}
	return remap, nil
}

func copyDataset(interp *rdf.Interpretation, dataset *rdf.Dataset, m *module.Module, remap map[rdf.ResourceID]rdf.ResourceID) error {
	if err := copyGraph(interp, dataset.Default, m.Default, remap); err != nil {
		return err
	}
	for gid, gd := range m.Named {
		g := dataset.Named(remap[gid])
		if err := copyGraph(interp, g, gd, remap); err != nil {
			return err
		}
	}
	return nil
}

func copyGraph(interp *rdf.Interpretation, dst *rdf.Graph, src module.GraphData, remap map[rdf.ResourceID]rdf.ResourceID) error {
	for _, f := range src.Facts {
		st := rdf.SignedTriple{
			Sign: f.Sign,
			Triple: rdf.Triple{
				Subject:   remap[f.Subject],
				Predicate: remap[f.Predicate],
				Object:    remap[f.Object],
			},
		}
		if _, _, err := dst.Insert(interp, st, f.Cause); err != nil {
			return err
		}
	}
	return nil
}

// Classify is a thin re-export so callers that only import
// internal/compose can produce the Classification a fresh module.Build
// call needs, without also importing internal/classify directly.
func Classify(interp *rdf.Interpretation, graph *rdf.Graph) (*classify.Classification, error) {
	return classify.Classify(interp, graph)
}
