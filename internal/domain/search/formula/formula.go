// Package formula reads Hill sum formulas.
package formula

// MaxCount caps an atom count; longer digit runs saturate.
const MaxCount = 1_000_000

// CarbonCount returns the number of carbon atoms of a sum formula: C10H22 → 10, CH4 → 1.
// Two-letter symbols such as Cl, Ca or Cu are not carbon.
func CarbonCount(f string) int {
	for i := 0; i < len(f); i++ {
		if f[i] != 'C' {
			continue
		}
		next := i + 1
		if next < len(f) && f[next] >= 'a' && f[next] <= 'z' {
			continue
		}
		n := 0
		for next < len(f) && f[next] >= '0' && f[next] <= '9' {
			if n < MaxCount {
				n = min(n*10+int(f[next]-'0'), MaxCount)
			}
			next++
		}
		if n == 0 {
			return 1
		}
		return n
	}
	return 0
}
