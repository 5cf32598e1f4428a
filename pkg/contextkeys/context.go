package contextkeys

// Custom key type to avoid collisions with other context values.
type contextKey string

// DBContextKey is the key under which the *gorm.DB handle (pool or
// transaction) is stored in the request context.
const DBContextKey = contextKey("db")

// AuthUserKey is the key under which the authenticated user's id is stored
// once a bearer token has been verified. Absent for anonymous requests.
const AuthUserKey = contextKey("authUser")
