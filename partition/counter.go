package partition

import "math/big"

type countKey struct {
	n, k, m int
}

// Counter counts restricted integer partitions, memoising every sub-result.
// It is not safe for concurrent use.
type Counter struct {
	memo map[countKey]*big.Int
}

func NewCounter() *Counter {
	return &Counter{memo: map[countKey]*big.Int{}}
}

// Count returns the number of partitions of n into exactly k parts, each
// part in [lo, hi].
func (c *Counter) Count(n, k, lo, hi int) *big.Int {
	if lo < 1 || hi < lo || k < 0 {
		return new(big.Int)
	}
	// Subtract lo-1 from every part to get parts in [1, hi-lo+1].
	return new(big.Int).Set(c.count(n-k*(lo-1), k, hi-lo+1))
}

// count is the number of partitions of n into exactly k parts in [1, m]:
// either the smallest part is 1 and can be removed, or every part is at
// least 2 and one can be taken from each.
func (c *Counter) count(n, k, m int) *big.Int {
	if k == 0 {
		if n == 0 {
			return big.NewInt(1)
		}
		return new(big.Int)
	}
	if m < 1 || n < k || n > k*m {
		return new(big.Int)
	}
	if k == 1 || n == k || n == k*m {
		return big.NewInt(1)
	}

	key := countKey{n, k, m}
	if v, ok := c.memo[key]; ok {
		return v
	}
	res := new(big.Int).Add(c.count(n-1, k-1, m), c.count(n-k, k, m-1))
	c.memo[key] = res
	return res
}

func (c *Counter) Size() int {
	return len(c.memo)
}
