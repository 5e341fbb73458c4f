package core

// Currency is reference data describing a supported cryptocurrency.
// Projects reference currencies by symbol.
type Currency struct {
	ID       int64
	Symbol   string // uppercase, unique, at most 12 chars
	FullName string
	Details  string
}
