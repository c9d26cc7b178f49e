package fileutil

import (
	"crypto/sha1"
	"encoding/hex"
	"io/ioutil"
	"os"
)

// SHA1Hex returns the lowercase hex SHA-1 digest of the file at path.
func SHA1Hex(path string) (string, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return "", &os.PathError{Op: "sha1", Path: path, Err: err}
	}
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:]), nil
}
