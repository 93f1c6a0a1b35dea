package intmath

import (
	"fmt"
	"math"
	"testing"
)

func TestIsqrt(t *testing.T) {
	for n := int64(0); n < 100000; n++ {
		got := Isqrt(n)
		want := int64(math.Sqrt(float64(n)))
		for want*want > n {
			want--
		}
		for (want+1)*(want+1) <= n {
			want++
		}
		if got != want {
			t.Fatalf("Isqrt(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestIsqrtPerfectSquares(t *testing.T) {
	for r := int64(0); r < 2000; r++ {
		n := r * r
		if got := Isqrt(n); got != r {
			t.Errorf("Isqrt(%d) = %d, want %d", n, got, r)
		}
		if r > 0 {
			if got := Isqrt(n - 1); got != r-1 {
				t.Errorf("Isqrt(%d) = %d, want %d", n-1, got, r-1)
			}
		}
	}
}

func TestIroot(t *testing.T) {
	tests := []struct {
		x, n, want int64
	}{
		{0, 2, 0},
		{1, 3, 1},
		{8, 3, 2},
		{9, 3, 2},
		{26, 3, 2},
		{27, 3, 3},
		{1000000, 2, 1000},
		{999999, 2, 999},
	}
	for _, tt := range tests {
		if got := Iroot(tt.x, int(tt.n)); got != tt.want {
			t.Errorf("Iroot(%d, %d) = %d, want %d", tt.x, tt.n, got, tt.want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{-1, 5, 0},
		{-5, 5, -1},
		{-6, 5, -1},
	}
	for _, tt := range tests {
		if got := CeilDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestInBetween(t *testing.T) {
	if got := InBetween[int64](2, 1, 10); got != 2 {
		t.Errorf("InBetween clamp low = %d, want 2", got)
	}
	if got := InBetween[int64](2, 20, 10); got != 10 {
		t.Errorf("InBetween clamp high = %d, want 10", got)
	}
	if got := InBetween[int64](2, 5, 10); got != 5 {
		t.Errorf("InBetween passthrough = %d, want 5", got)
	}
}

func TestIpowLessEqual(t *testing.T) {
	if !IpowLessEqual[int64](2, 10, 1024) {
		t.Error("2^10 <= 1024 should be true")
	}
	if IpowLessEqual[int64](2, 10, 1023) {
		t.Error("2^10 <= 1023 should be false")
	}
	if !IpowLessEqual[int64](2, 62, math.MaxInt64) {
		t.Error("2^62 should fit in int64 without overflow in the guard")
	}
	if IpowLessEqual[int64](2, 100, math.MaxInt64) {
		t.Error("2^100 must not silently overflow into a false positive")
	}
}

func TestPiBsearch(t *testing.T) {
	primes := []int64{0, 2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	tests := []struct{ x, want int64 }{
		{1, 0},
		{2, 1},
		{4, 2},
		{29, 10},
		{30, 10},
		{100, 10},
	}
	for _, tt := range tests {
		if got := PiBsearch(primes, tt.x); got != int(tt.want) {
			t.Errorf("PiBsearch(primes, %d) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestIsqrtLargeNearMaxInt64(t *testing.T) {
	x := int64(math.MaxInt64)
	r := Isqrt(x)
	if r*r > x {
		t.Fatalf("Isqrt(%d) = %d overshoots: %d*%d > %d", x, r, r, r, x)
	}
	if (r+1)*(r+1) > 0 && (r+1)*(r+1) <= x {
		t.Fatalf("Isqrt(%d) = %d undershoots", x, r)
	}
}

func ExamplePiBsearch() {
	primes := []int64{0, 2, 3, 5, 7, 11}
	fmt.Println(PiBsearch(primes, 7))
	// Output: 4
}
