package storage

// UserKey suffixes a base key with the owning user id. An empty user id
// leaves the key unscoped, which keeps state written before user scoping
// existed readable.
func UserKey(base, userID string) string {
	if userID == "" {
		return base
	}
	return base + ":" + userID
}
