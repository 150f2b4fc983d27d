package privkey

import "sync"

// lazy holds a value computed on first use. The first outcome, value or
// error, is kept for the lifetime of the slot.
type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(compute func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.val, l.err = compute()
	})
	return l.val, l.err
}
