package ports

// SourceResolver expands source patterns into concrete files.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type SourceResolver interface {
	// ResolveSources resolves the given patterns, relative to root, to a
	// sorted list of relative file paths.
	ResolveSources(patterns []string, root string) ([]string, error)
}
