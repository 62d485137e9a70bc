package osc

// pad4 rounds n up to the next multiple of 4, per the OSC requirement that
// strings, blobs and the fixed-size header fields are always padded with
// NUL bytes to a 4-byte boundary.
func pad4(n int) int {
	return ((n + 3) / 4) * 4
}
