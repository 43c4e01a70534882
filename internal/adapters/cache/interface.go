package cache

type hitResult[T any] struct {
	data    T
	valid   bool
	claimed bool
}

type Cache[T any] interface {
	// Get a stored value. Entries that are claimed but not yet set are not returned
	Get(key string) (T, bool)
	Delete(key string)

	getOrClaim(key string) hitResult[T]
	set(key string, data T)
	wait()
}
