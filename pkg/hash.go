package fsdiag

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// HexLen returns the length of the hex digest this algorithm produces
func (a *HashAlgorithm) HexLen() int {
	return a.Size * 2
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "md5":
		return &HashAlgorithm{
			Name:    "md5",
			TypeID:  HashTypeMD5,
			Size:    HashSizeMD5,
			NewFunc: md5.New,
		}, nil
	case "sha1":
		return &HashAlgorithm{
			Name:    "sha1",
			TypeID:  HashTypeSHA1,
			Size:    HashSizeSHA1,
			NewFunc: sha1.New,
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			TypeID:  HashTypeSHA256,
			Size:    HashSizeSHA256,
			NewFunc: sha256.New,
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			TypeID:  HashTypeSHA512,
			Size:    HashSizeSHA512,
			NewFunc: sha512.New,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	name := HashTypeName(typeID)
	if name == "unknown" {
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
	return GetHashAlgorithm(name)
}

// AlgorithmForDigest picks the algorithm whose hex digest length matches
// digest. Manifests do not name their algorithm, so this is how compare
// re-checks a file with the function that produced the recorded value.
func AlgorithmForDigest(digest string) (*HashAlgorithm, bool) {
	if _, err := hex.DecodeString(digest); err != nil {
		return nil, false
	}
	for _, typeID := range []uint16{HashTypeMD5, HashTypeSHA1, HashTypeSHA256, HashTypeSHA512} {
		algorithm, err := GetHashAlgorithmByType(typeID)
		if err != nil {
			continue
		}
		if algorithm.HexLen() == len(digest) {
			return algorithm, true
		}
	}
	return nil, false
}

// HashReader reads r to the end through a buffer of bufferSize bytes and
// returns the hex digest of everything read
func HashReader(r io.Reader, algorithm *HashAlgorithm, bufferSize int) (string, error) {
	if bufferSize <= 0 {
		return "", fmt.Errorf("invalid hash buffer size: %d", bufferSize)
	}

	hasher := algorithm.NewFunc()
	buffer := make([]byte, bufferSize)

	for {
		n, err := r.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashFile calculates the hex digest of a file's contents
func HashFile(filePath string, algorithm *HashAlgorithm, bufferSize int) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	digest, err := HashReader(file, algorithm, bufferSize)
	if err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", filePath, err)
	}

	if IsDebugEnabled("hash") {
		DebugLog("hash", "%s %s %s", algorithm.Name, digest, filePath)
	}
	return digest, nil
}
