package roles

// System role constants used to gate protected routes.
const (
	Admin      = "ADMIN"
	BasicUser  = "BASIC_USER"
	Subscriber = "SUBSCRIBER"
)
