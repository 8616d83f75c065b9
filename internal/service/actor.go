package service

// DefaultServiceName identifies this service in audit and call logs
const DefaultServiceName = "fitneaseops"

// Actor carries the authenticated caller and request origin explicitly into
// every write path. There is no ambient current-user lookup.
type Actor struct {
	UserID    *int64
	IPAddress string
	UserAgent string
}
