package prefs

// Namespaced returns a view of s that prefixes every key, so several
// independent caches can share one underlying store.
func Namespaced(s Store, prefix string) Store {
	return &namespaced{store: s, prefix: prefix}
}

type namespaced struct {
	store  Store
	prefix string
}

func (n *namespaced) GetString(key string) (string, bool) { return n.store.GetString(n.prefix + key) }

func (n *namespaced) SetString(key, value string) error { return n.store.SetString(n.prefix+key, value) }

func (n *namespaced) GetInt64(key string) (int64, bool) { return n.store.GetInt64(n.prefix + key) }

func (n *namespaced) SetInt64(key string, value int64) error {
	return n.store.SetInt64(n.prefix+key, value)
}

func (n *namespaced) GetBool(key string) (bool, bool) { return n.store.GetBool(n.prefix + key) }

func (n *namespaced) SetBool(key string, value bool) error {
	return n.store.SetBool(n.prefix+key, value)
}
