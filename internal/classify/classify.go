// Package classify computes resource equivalence groups via color
// refinement on the labelled fact graph, used for canonicalization and
// cross-module composition (spec §4.6).
package classify

import (
	"fmt"
	"sort"

	"github.com/inferdf/inferdf/internal/rdf"
)

// Classification holds the final-layer partition of a graph's resources
// plus the chosen representative resource for each group (spec §3 "Group
// / Class / Representative").
type Classification struct {
	FinalLayer     uint32
	Groups         map[rdf.GroupID][]rdf.ResourceID
	Representative map[rdf.GroupID]rdf.ResourceID
	// Signature is the canonical refinement tag shared by every member of
	// a group. Two groups from independently-built classifications denote
	// the same structural role iff their Signature bytes are equal,
	// regardless of the arbitrary GroupID.Index each classification
	// happened to assign (spec §4.6, used by internal/compose and the
	// module codec's GroupByDesc rows).
	Signature map[rdf.GroupID][]byte
}

type fact3 struct{ s, p, o rdf.ResourceID }

// Classify partitions every resource that appears in graph into
// isomorphism groups. Layer 0 groups by degree vector over predicate ids;
// each subsequent layer refines by the multiset of neighbour classes until
// fixpoint (spec §4.6).
func Classify(interp *rdf.Interpretation, graph *rdf.Graph) (*Classification, error) {
	facts := graph.All()
	triples := make([]fact3, 0, len(facts))
	resourceSet := make(map[rdf.ResourceID]struct{})
	for _, f := range facts {
		s := interp.Representative(f.Subject)
		p := interp.Representative(f.Predicate)
		o := interp.Representative(f.Object)
		triples = append(triples, fact3{s, p, o})
		resourceSet[s] = struct{}{}
		resourceSet[p] = struct{}{}
		resourceSet[o] = struct{}{}
	}
	resources := make([]rdf.ResourceID, 0, len(resourceSet))
	for r := range resourceSet {
		resources = append(resources, r)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i] < resources[j] })

	class := layer0(triples, resources)
	layer := uint32(0)
	for {
		next := refine(triples, resources, class)
		if sameNumberOfGroups(class, next) {
			class = next
			break
		}
		class = next
		layer++
		if int(layer) > len(resources)+1 {
			return nil, fmt.Errorf("classify: refinement failed to converge after %d layers", layer)
		}
	}

	groupIndex := assignGroupIndices(class)
	groups := make(map[rdf.GroupID][]rdf.ResourceID)
	signature := make(map[rdf.GroupID][]byte)
	for _, r := range resources {
		gid := rdf.GroupID{Layer: layer, Index: groupIndex[class[r]]}
		groups[gid] = append(groups[gid], r)
		signature[gid] = []byte(class[r])
	}

	repr := make(map[rdf.GroupID]rdf.ResourceID, len(groups))
	for gid, members := range groups {
		repr[gid] = pickRepresentative(interp, members)
	}

	for gid, members := range groups {
		for idx, r := range members {
			interp.SetClass(r, rdf.Class{Group: gid, Index: uint32(idx)})
		}
	}

	return &Classification{FinalLayer: layer, Groups: groups, Representative: repr, Signature: signature}, nil
}

func layer0(triples []fact3, resources []rdf.ResourceID) map[rdf.ResourceID]string {
	subjCount := make(map[rdf.ResourceID]map[rdf.ResourceID]int)
	objCount := make(map[rdf.ResourceID]map[rdf.ResourceID]int)
	for _, t := range triples {
		if subjCount[t.s] == nil {
			subjCount[t.s] = make(map[rdf.ResourceID]int)
		}
		subjCount[t.s][t.p]++
		if objCount[t.o] == nil {
			objCount[t.o] = make(map[rdf.ResourceID]int)
		}
		objCount[t.o][t.p]++
	}

	sig := make(map[rdf.ResourceID]string, len(resources))
	for _, r := range resources {
		type pc struct {
			p    rdf.ResourceID
			s, o int
		}
		preds := make(map[rdf.ResourceID]*pc)
		for p, c := range subjCount[r] {
			if preds[p] == nil {
				preds[p] = &pc{p: p}
			}
			preds[p].s = c
		}
		for p, c := range objCount[r] {
			if preds[p] == nil {
				preds[p] = &pc{p: p}
			}
			preds[p].o = c
		}
		list := make([]*pc, 0, len(preds))
		for _, v := range preds {
			list = append(list, v)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].p < list[j].p })
		s := ""
		for _, v := range list {
			s += fmt.Sprintf("%d:%d:%d|", v.p, v.s, v.o)
		}
		sig[r] = s
	}
	return sig
}

// refine computes each resource's next signature as its current class tag
// combined with the sorted multiset of its neighbours' current class tags
// (spec §4.6: "refines by the multiset of neighbour classes").
func refine(triples []fact3, resources []rdf.ResourceID, class map[rdf.ResourceID]string) map[rdf.ResourceID]string {
	neighbours := make(map[rdf.ResourceID][]rdf.ResourceID)
	add := func(a, b rdf.ResourceID) {
		neighbours[a] = append(neighbours[a], b)
	}
	for _, t := range triples {
		add(t.s, t.p)
		add(t.s, t.o)
		add(t.p, t.s)
		add(t.p, t.o)
		add(t.o, t.s)
		add(t.o, t.p)
	}

	next := make(map[rdf.ResourceID]string, len(resources))
	for _, r := range resources {
		ns := neighbours[r]
		tags := make([]string, len(ns))
		for i, n := range ns {
			tags[i] = class[n]
		}
		sort.Strings(tags)
		s := class[r] + "#"
		for _, tag := range tags {
			s += tag + ","
		}
		next[r] = s
	}
	return next
}

func sameNumberOfGroups(a, b map[rdf.ResourceID]string) bool {
	countGroups := func(m map[rdf.ResourceID]string) int {
		seen := make(map[string]struct{})
		for _, v := range m {
			seen[v] = struct{}{}
		}
		return len(seen)
	}
	return countGroups(a) == countGroups(b)
}

func assignGroupIndices(class map[rdf.ResourceID]string) map[string]uint32 {
	sigs := make([]string, 0, len(class))
	seen := make(map[string]struct{})
	for _, s := range class {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			sigs = append(sigs, s)
		}
	}
	sort.Strings(sigs)
	idx := make(map[string]uint32, len(sigs))
	for i, s := range sigs {
		idx[s] = uint32(i)
	}
	return idx
}

// pickRepresentative chooses a class's representative by lexicographic
// ordering of the IRI-set's smallest member; a member with an IRI beats one
// without, and members without an IRI are ordered by id. Literal sets are
// not compared.
func pickRepresentative(interp *rdf.Interpretation, members []rdf.ResourceID) rdf.ResourceID {
	best := members[0]
	bestIRI, bestHasIRI := smallestIRIBytes(interp, best)
	for _, m := range members[1:] {
		iri, hasIRI := smallestIRIBytes(interp, m)
		switch {
		case hasIRI && !bestHasIRI:
			best, bestIRI, bestHasIRI = m, iri, true
		case hasIRI && bestHasIRI && string(iri) < string(bestIRI):
			best, bestIRI = m, iri
		case !hasIRI && !bestHasIRI && m < best:
			best = m
		}
	}
	return best
}

func smallestIRIBytes(interp *rdf.Interpretation, r rdf.ResourceID) ([]byte, bool) {
	ids := interp.IRIs(r)
	if len(ids) == 0 {
		return nil, false
	}
	vocab := interp.IRIVocabulary()
	smallest := vocab.Bytes(ids[0])
	for _, id := range ids[1:] {
		b := vocab.Bytes(id)
		if string(b) < string(smallest) {
			smallest = b
		}
	}
	return smallest, true
}
