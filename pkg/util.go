package fsdiag

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseHumanSize parses human-readable size strings (e.g., "2M", "512k", "1G")
func ParseHumanSize(sizeStr string) (int, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	// Extract numeric part and suffix
	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = sizeStr[i:]
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier int64 = 1
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	result := int64(num * float64(multiplier))
	if result <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", sizeStr)
	}
	if result > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}

	return int(result), nil
}

// joinPath appends name to dir the way the manifest expects: the directory
// prefix is kept exactly as given ("./src" stays "./src/a.go") so that the
// substring filter in compare still matches the root the user typed.
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}
