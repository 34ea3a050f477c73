package repo

import (
	"fmt"
	"sort"

	"github.com/jonathanalvares9009/version/pkg/object"
)

// maxAncestryWalkSteps bounds commit-graph traversal against malformed
// stores; well-formed histories are acyclic by content addressing.
const maxAncestryWalkSteps = 1_000_000

// Ancestors returns the reflexive transitive closure of parent links from
// the given commit, in breadth-first discovery order starting with the
// commit itself.
func (r *Repo) Ancestors(commitHash object.Hash) ([]object.Hash, error) {
	visited := map[object.Hash]struct{}{commitHash: {}}
	order := []object.Hash{commitHash}
	queue := []object.Hash{commitHash}
	steps := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		steps++
		if steps > maxAncestryWalkSteps {
			return nil, fmt.Errorf("ancestors %s: traversal exceeded %d steps", commitHash, maxAncestryWalkSteps)
		}

		c, err := r.Store.ReadCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("ancestors: %w", err)
		}
		for _, p := range c.Parents {
			if p == "" {
				continue
			}
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}
			order = append(order, p)
			queue = append(queue, p)
		}
	}
	return order, nil
}

// IsAncestor reports whether a appears among the ancestors of b (reflexive:
// every commit is its own ancestor).
func (r *Repo) IsAncestor(a, b object.Hash) (bool, error) {
	if a == "" || b == "" {
		return false, nil
	}
	ancestors, err := r.Ancestors(b)
	if err != nil {
		return false, err
	}
	for _, h := range ancestors {
		if h == a {
			return true, nil
		}
	}
	return false, nil
}

// IsUpToDate reports whether the receiver already contains the giver: they
// are equal, the giver is an ancestor of the receiver, or there is no giver
// at all. A receiver commit absent from the local store (a peer's head this
// repository has not fetched) cannot be walked and reports false.
func (r *Repo) IsUpToDate(receiver, giver object.Hash) (bool, error) {
	if giver == "" {
		return true, nil
	}
	if receiver == "" {
		return false, nil
	}
	if receiver == giver {
		return true, nil
	}
	if !r.Store.Has(receiver) {
		return false, nil
	}
	return r.IsAncestor(giver, receiver)
}

// CanFastForward reports whether the giver can be reached by advancing the
// receiver: there is no receiver yet, or the receiver is an ancestor of the
// giver.
func (r *Repo) CanFastForward(receiver, giver object.Hash) (bool, error) {
	if receiver == "" {
		return true, nil
	}
	return r.IsAncestor(receiver, giver)
}

// IsAForceFetch reports whether moving a ref from oldHash to newHash rewinds
// or sidesteps history; used only for reporting.
func (r *Repo) IsAForceFetch(oldHash, newHash object.Hash) (bool, error) {
	if oldHash == "" {
		return false, nil
	}
	isAncestor, err := r.IsAncestor(oldHash, newHash)
	if err != nil {
		return false, err
	}
	return !isAncestor, nil
}

// CommonAncestor returns a commit that is an ancestor of both a and b, or
// false when the histories are unrelated. The pair is ordered before
// walking, so the result is deterministic for a given pair regardless of
// argument order; criss-cross histories may resolve to any one base.
func (r *Repo) CommonAncestor(a, b object.Hash) (object.Hash, bool, error) {
	if a == "" || b == "" {
		return "", false, nil
	}
	pair := []object.Hash{a, b}
	sort.Slice(pair, func(i, j int) bool { return pair[i] < pair[j] })

	aAncestors, err := r.Ancestors(pair[0])
	if err != nil {
		return "", false, err
	}
	bAncestors, err := r.Ancestors(pair[1])
	if err != nil {
		return "", false, err
	}

	inB := make(map[object.Hash]struct{}, len(bAncestors))
	for _, h := range bAncestors {
		inB[h] = struct{}{}
	}
	for _, h := range aAncestors {
		if _, ok := inB[h]; ok {
			return h, true, nil
		}
	}
	return "", false, nil
}
