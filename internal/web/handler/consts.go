package handler

const (
	// APIPath is the prefix of every JSON route.
	APIPath = "/api"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilDepsFatalLogMsg is used if the router or a dependency is nil.
	ErrNilDepsFatalLogMsg = "router or dependencies are nil"
)
