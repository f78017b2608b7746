package repository

// Option applies a configuration option to the BoardStore.
type Option func(*BoardStore)

// WithMaxEntries caps how many bets a board keeps. Zero or less keeps all.
func WithMaxEntries(n int) Option {
	return func(s *BoardStore) {
		s.maxEntries = n
	}
}
