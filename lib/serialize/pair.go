package serialize

// Pair holds two values of arbitrary types. It is encoded as First followed by
// Second without any prefix, independent of whether F and S are trivially copyable.
type Pair[F, S any] struct {
	First  F
	Second S
}

// MakePair returns Pair{First: first, Second: second}.
func MakePair[F, S any](first F, second S) Pair[F, S] {
	return Pair[F, S]{First: first, Second: second}
}
