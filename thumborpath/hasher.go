package thumborpath

import (
	"crypto/md5"
	"encoding/hex"
)

// ImageHash lowercase hex MD5 digest of the image identifier,
// as expected by the thumbor legacy verifier
func ImageHash(image string) string {
	var digest = md5.Sum([]byte(image))
	return hex.EncodeToString(digest[:])
}
