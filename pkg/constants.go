package fsdiag

import (
	"strings"
)

// Version is reported by --version
const Version = "1.0.0"

// File constants
const (
	DefaultOutputFile = "fsdiag.log" // Manifest written by scan when no name is given
	ConfigDirName     = "fsdiag"
	ConfigFileName    = "config"
)

// Manifest format constants
const (
	// RecordDelimiter separates path and digest in a plain manifest line.
	// It is not escaped, so it must never occur inside a path.
	RecordDelimiter = "[=]"

	FormatPlain = "plain" // <path>[=]<digest>
	FormatJSONL = "jsonl" // {"path":"...","digest":"..."}
)

// Hash type constants
const (
	HashTypeMD5    uint16 = 1 // MD5 (16 bytes)
	HashTypeSHA1   uint16 = 2 // SHA-1 (20 bytes)
	HashTypeSHA256 uint16 = 3 // SHA-256 (32 bytes)
	HashTypeSHA512 uint16 = 4 // SHA-512 (64 bytes)
)

// Hash size constants
const (
	HashSizeMD5    = 16
	HashSizeSHA1   = 20
	HashSizeSHA256 = 32
	HashSizeSHA512 = 64
)

// DefaultHashAlgorithm keeps digests compatible with manifests produced by
// earlier releases
const DefaultHashAlgorithm = "md5"

// DefaultHashBuffer is the read buffer used while hashing
const DefaultHashBuffer = "1K"

// SecondsPerDay is the divisor used to turn a file age into whole days
const SecondsPerDay = 86400

// Colour modes for console output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeMD5:
		return "md5"
	case HashTypeSHA1:
		return "sha1"
	case HashTypeSHA256:
		return "sha256"
	case HashTypeSHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "md5":
		return HashTypeMD5, true
	case "sha1":
		return HashTypeSHA1, true
	case "sha256":
		return HashTypeSHA256, true
	case "sha512":
		return HashTypeSHA512, true
	default:
		return 0, false
	}
}
