package match

// Index maps normalized name keys to canonical identity IDs, preserving
// first-seen insertion order. Order matters: fuzzy ties break toward the
// earliest-indexed candidate, which keeps matching deterministic across
// runs of the same snapshot.
type Index struct {
	keys []string
	ids  map[string]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{ids: make(map[string]string)}
}

// Add records a key for an identity. The first binding for a key wins;
// the matcher never creates two identities for one normalized name.
func (ix *Index) Add(key, id string) {
	if key == "" {
		return
	}
	if _, ok := ix.ids[key]; ok {
		return
	}
	ix.keys = append(ix.keys, key)
	ix.ids[key] = id
}

// Get returns the identity bound to a key.
func (ix *Index) Get(key string) (string, bool) {
	id, ok := ix.ids[key]
	return id, ok
}

// Keys returns all keys in first-seen order.
func (ix *Index) Keys() []string {
	return ix.keys
}

// Len returns the number of indexed keys.
func (ix *Index) Len() int {
	return len(ix.keys)
}
