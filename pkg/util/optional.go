package util

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Extractor reads an optional value out of a source payload.
type Extractor[S, T any] func(S) *T

// Coalesce runs extractors in order against src and returns the first
// non-absent result.
func Coalesce[S, T any](src S, extractors ...Extractor[S, T]) *T {
	for _, ex := range extractors {
		if ex == nil {
			continue
		}
		if v := ex(src); v != nil {
			return v
		}
	}
	return nil
}

// FillMissing sets *dst to src when dst is still absent.
// It reports whether a value was filled.
func FillMissing[T any](dst **T, src *T) bool {
	if *dst != nil || src == nil {
		return false
	}
	v := *src
	*dst = &v
	return true
}

// Deref returns *p or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
