package ports

// Symmetric lookup of non-negative distances (miles) between address keys,
// including domain.HubKey. Pure lookup; implementations must not mutate.
type DistanceTable interface {
	Distance(a, b string) (float64, error)
}
