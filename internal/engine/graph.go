package engine

import (
	"context"
	"sort"
	"sync"
)

// TreeNode is one branch in the rendered descendant tree.
type TreeNode struct {
	Name     string
	Orphaned bool
	Children []*TreeNode
}

// BuildTree walks the whole repository's branch set from the trunk down,
// resolving each frontier level's children concurrently under the worker
// bound. Orphaned branches appear beneath the parent they will re-join after
// an evolve.
func (e *Engine) BuildTree(ctx context.Context) (*TreeNode, error) {
	root := &TreeNode{Name: e.trunk}
	frontier := []*TreeNode{root}
	visited := map[string]bool{e.trunk: true}

	for len(frontier) > 0 {
		type result struct {
			node     *TreeNode
			children Children
			err      error
		}
		results := make([]result, len(frontier))

		var wg sync.WaitGroup
		sem := make(chan struct{}, e.concurrency)
		for i, node := range frontier {
			wg.Add(1)
			go func(i int, node *TreeNode) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				children, err := e.ResolveChildren(ctx, node.Name)
				results[i] = result{node: node, children: children, err: err}
			}(i, node)
		}
		wg.Wait()

		var next []*TreeNode
		for _, res := range results {
			if res.err != nil {
				return nil, res.err
			}
			for _, name := range res.children.Current {
				if visited[name] {
					continue
				}
				visited[name] = true
				child := &TreeNode{Name: name}
				res.node.Children = append(res.node.Children, child)
				next = append(next, child)
			}
			for _, name := range res.children.Orphaned {
				if visited[name] {
					continue
				}
				visited[name] = true
				child := &TreeNode{Name: name, Orphaned: true}
				res.node.Children = append(res.node.Children, child)
				next = append(next, child)
			}
			sort.Slice(res.node.Children, func(a, b int) bool {
				return res.node.Children[a].Name < res.node.Children[b].Name
			})
		}
		frontier = next
	}

	return root, nil
}

// OrphanCount counts orphaned branches anywhere in a tree.
func (t *TreeNode) OrphanCount() int {
	count := 0
	if t.Orphaned {
		count++
	}
	for _, child := range t.Children {
		count += child.OrphanCount()
	}
	return count
}
