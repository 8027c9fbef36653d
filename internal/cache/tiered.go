package cache

import "context"

// Tiered reads through a fast local tier to a shared tier and writes both.
type Tiered struct {
	l1 Cache
	l2 Cache
}

// NewTiered combines two tiers. A nil l2 makes the result behave like l1.
func NewTiered(l1, l2 Cache) *Tiered {
	return &Tiered{l1: l1, l2: l2}
}

// Get checks l1, then l2, backfilling l1 on an l2 hit.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := t.l1.Get(ctx, key); ok {
		return v, true
	}
	if t.l2 == nil {
		return nil, false
	}
	v, ok := t.l2.Get(ctx, key)
	if !ok {
		return nil, false
	}
	t.l1.Set(ctx, key, v)
	return v, true
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte) {
	t.l1.Set(ctx, key, value)
	if t.l2 != nil {
		t.l2.Set(ctx, key, value)
	}
}

func (t *Tiered) Delete(ctx context.Context, key string) {
	t.l1.Delete(ctx, key)
	if t.l2 != nil {
		t.l2.Delete(ctx, key)
	}
}
