package ports

// TokenCodec encodes and verifies the opaque bearer token binding a user
// identity to a version snapshot. Tokens are stateless: no server-side
// token store exists, invalidation happens purely through the version.
type TokenCodec interface {
	Issue(userID string, version int) (string, error)
	Verify(token string) (userID string, version int, err error)
}
