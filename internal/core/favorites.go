package core

// FavoriteSet is the in-memory mirror of a user's saved song titles.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from titles.
func NewFavoriteSet(titles ...string) FavoriteSet {
	s := make(FavoriteSet, len(titles))
	for _, t := range titles {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether title is saved.
func (s FavoriteSet) Contains(title string) bool {
	_, ok := s[title]
	return ok
}

// With returns a copy of the set including title.
func (s FavoriteSet) With(title string) FavoriteSet {
	out := make(FavoriteSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[title] = struct{}{}
	return out
}

// Without returns a copy of the set excluding title.
func (s FavoriteSet) Without(title string) FavoriteSet {
	out := make(FavoriteSet, len(s))
	for k := range s {
		if k != title {
			out[k] = struct{}{}
		}
	}
	return out
}
