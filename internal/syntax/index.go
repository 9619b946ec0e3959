package syntax

// Indexer builds the node id map of a crate.
type Indexer struct{}

// Index maps every item and call of crate by id.
func (Indexer) Index(crate *Crate) ASTMap {
	amap := make(ASTMap, len(crate.Items))
	for _, it := range crate.Items {
		amap[it.ID] = Node{Item: it}
		for _, c := range it.Calls {
			amap[c.ID] = Node{Call: c}
		}
	}
	return amap
}
