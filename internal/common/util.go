package common

// WipeByteArray overwrites sensitive byte slices (passwords) in place so
// they do not linger in memory longer than needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
