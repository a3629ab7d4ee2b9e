package stages

import (
	"github.com/abissens/elepages/pkg/errors"
	"github.com/abissens/elepages/pkg/pages"
)

// MetadataTree is a trie keyed by path segments; each node optionally holds
// a metadata value. The shadow stage feeds it with sidecar targets and reads
// back the root-to-leaf metadata chain of every page path.
type MetadataTree struct {
	sub map[string]*metadataNode
}

type metadataNode struct {
	metadata *pages.Metadata
	sub      map[string]*metadataNode
}

// MetadataNode is one visited node of a lookup: the segment name and the
// metadata held there, nil when the node exists without metadata.
type MetadataNode struct {
	Path     string
	Metadata *pages.Metadata
}

// NewMetadataTree returns an empty tree.
func NewMetadataTree() *MetadataTree {
	return &MetadataTree{sub: map[string]*metadataNode{}}
}

// Push stores metadata at path, creating interior nodes as needed. An empty
// path is an error at the root.
func (t *MetadataTree) Push(path []string, metadata *pages.Metadata) error {
	if len(path) == 0 {
		return errors.MetadataTreeError("path cannot be empty on root node")
	}
	node, ok := t.sub[path[0]]
	if !ok {
		node = &metadataNode{sub: map[string]*metadataNode{}}
		t.sub[path[0]] = node
	}
	node.push(path[1:], metadata)
	return nil
}

func (n *metadataNode) push(path []string, metadata *pages.Metadata) {
	if len(path) == 0 {
		n.metadata = metadata
		return
	}
	node, ok := n.sub[path[0]]
	if !ok {
		node = &metadataNode{sub: map[string]*metadataNode{}}
		n.sub[path[0]] = node
	}
	node.push(path[1:], metadata)
}

// GetMetadataFromPath returns the node chain visited from the root to the
// deepest node present along path, in root-to-leaf order.
func (t *MetadataTree) GetMetadataFromPath(path []string) []MetadataNode {
	var result []MetadataNode
	if len(path) == 0 {
		return result
	}
	node, ok := t.sub[path[0]]
	current := path[0]
	rest := path[1:]
	for ok {
		result = append(result, MetadataNode{Path: current, Metadata: node.metadata})
		if len(rest) == 0 {
			break
		}
		next, found := node.sub[rest[0]]
		if !found {
			break
		}
		current = rest[0]
		rest = rest[1:]
		node = next
		ok = true
	}
	return result
}
