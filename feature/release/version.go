package release

import (
	"fmt"
	"strconv"
	"strings"
)

// Increment bumps a major.minor.patch version by one patch, carrying base-10
// overflow into the next component. Missing components count as zero.
func Increment(v string) (string, error) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) > 3 {
		return "", fmt.Errorf("invalid version %q", v)
	}
	nums := [3]int{}
	for i, p := range parts {
		if p == "" && len(parts) == 1 {
			break
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid version %q", v)
		}
		nums[i] = n
	}

	nums[2]++
	if nums[2] > 9 {
		nums[2] = 0
		nums[1]++
	}
	if nums[1] > 9 {
		nums[1] = 0
		nums[0]++
	}
	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]), nil
}

// compareVersions orders dotted numeric versions; non-numeric parts compare as zero.
func compareVersions(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var x, y int
		if i < len(pa) {
			x, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			y, _ = strconv.Atoi(pb[i])
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}
