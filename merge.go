package strata

// Merge deep-merges overlay onto base and returns the result without
// modifying either input. When both nodes are maps the merge recurses
// key-by-key; in every other case the overlay replaces the base outright,
// including sequences, which are never concatenated. The result keeps the
// base's key order and appends overlay-only keys in overlay order.
//
// Merge is not commutative: on conflict the overlay always wins. The loader
// relies on a single fixed accumulation order (files, secrets, environment,
// CLI) to keep the outcome deterministic.
func Merge(base, overlay *Value) *Value {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}
	if base.kind != KindMap || overlay.kind != KindMap {
		return overlay
	}
	out := NewMap()
	for _, key := range base.keys {
		out.Set(key, base.m[key])
	}
	for _, key := range overlay.keys {
		ov := overlay.m[key]
		if cur, ok := out.Get(key); ok && cur.kind == KindMap && ov.kind == KindMap {
			out.Set(key, Merge(cur, ov))
			continue
		}
		out.Set(key, ov)
	}
	return out
}
