// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package iz

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"sync"

	"github.com/Zprime137/iZprime/bitmap"
)

// searchVX is the width used by the horizontal random search: small
// enough that the per-row marking bitmap rebuilds quickly, large
// enough that the wheel removes most candidates.
const searchVX = VX5

// minSearchBits is the smallest target the searches accept; below
// this the wheel row arithmetic degenerates.
const minSearchBits = 16

// VXSearchPrime performs the horizontal random-prime search: pick a
// random row of bitSize magnitude, mark the row's composites for every
// root prime, then probe surviving candidates from a random offset.
// mID selects the line (-1 or +1); 0 picks one at random. The search
// runs until a prime is found or ctx is cancelled.
func VXSearchPrime(ctx context.Context, mID, bitSize int, rng *rand.Rand) (*big.Int, error) {
	if bitSize < minSearchBits {
		return nil, fmt.Errorf("%w: bit size %d too small", ErrDomain, bitSize)
	}
	if rng == nil {
		rng = newRand()
	}
	if mID == 0 {
		mID = 1 - 2*rng.Intn(2)
	}
	vx := uint64(searchVX)
	roots, err := SiZm(vx)
	if err != nil {
		return nil, err
	}

	// lock the magnitude: y ~ 2^bitSize / (6*vx)
	y := randBits(rng, bitSize)
	y.Div(y, new(big.Int).SetUint64(6*vx))

	row, err := bitmap.New(vx+1, true)
	if err != nil {
		return nil, err
	}
	yvx := new(big.Int)
	vxB := new(big.Int).SetUint64(vx)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row.SetAll()
		for i := 2; i < roots.Len(); i++ { // skip 2 and 3
			p := roots.At(i)
			row.ClearStepsSIMD(p, SolveX0Big(mID, p, vx, y), vx)
		}
		yvx.Mul(y, vxB)
		start := uint64(rng.Int63n(int64(vx / 2)))
		for x := start; x <= vx; x++ {
			if !row.IsSet(x) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cand := izAt(yvx, x, mID)
			if checkPrimality(cand, MRRounds) {
				return cand, nil
			}
		}
		y.Add(y, bigOne)
	}
}

// VYSearchPrime performs the vertical random-prime search: fix a
// random column coprime to vx, jump to a random row of bitSize
// magnitude, and walk the column upward probing each candidate.
func VYSearchPrime(ctx context.Context, mID, bitSize int, vx *big.Int, rng *rand.Rand) (*big.Int, error) {
	if bitSize < minSearchBits {
		return nil, fmt.Errorf("%w: bit size %d too small", ErrDomain, bitSize)
	}
	if vx == nil || vx.Sign() <= 0 {
		return nil, fmt.Errorf("%w: vertical search needs a positive vx", ErrDomain)
	}
	if rng == nil {
		rng = newRand()
	}
	if mID == 0 {
		mID = 1 - 2*rng.Intn(2)
	}

	// pick a column that can host primes: z = 6*r + mID, advanced by
	// 6 until it is coprime to vx
	z := randBelow(rng, vx)
	z.Mul(z, bigSix)
	if mID < 0 {
		z.Sub(z, bigOne)
	} else {
		z.Add(z, bigOne)
	}
	g := new(big.Int)
	for g.GCD(nil, nil, vx, new(big.Int).Abs(z)).Cmp(bigOne) != 0 {
		z.Add(z, bigSix)
	}

	// jump to the target magnitude by a random multiple of 6*vx
	vx6 := new(big.Int).Mul(vx, bigSix)
	jump := randBits(rng, bitSize)
	jump.Div(jump, vx6)
	z.Add(z, jump.Mul(jump, vx6))

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		z.Add(z, vx6)
		if checkPrimality(z, MRRounds) {
			return new(big.Int).Set(z), nil
		}
	}
}

// VXRandomPrime fans the horizontal search out over cores independent
// workers and returns the first prime delivered, cancelling the rest.
func VXRandomPrime(bitSize, cores int) (*big.Int, error) {
	return fanOut(bitSize, cores, func(ctx context.Context, rng *rand.Rand) (*big.Int, error) {
		return VXSearchPrime(ctx, 0, bitSize, rng)
	})
}

// VYRandomPrime fans the vertical search out over cores independent
// workers. The column modulus is the largest primorial of half the
// target size, so the wheel filters aggressively while gcd stays
// cheap.
func VYRandomPrime(bitSize, cores int) (*big.Int, error) {
	vx := ComputeMaxVX(bitSize / 2)
	if vx.Cmp(new(big.Int).SetUint64(VX2)) < 0 {
		vx.SetUint64(VX2)
	}
	return fanOut(bitSize, cores, func(ctx context.Context, rng *rand.Rand) (*big.Int, error) {
		return VYSearchPrime(ctx, 0, bitSize, vx, rng)
	})
}

// fanOut runs search on up to cores workers, each with its own seeded
// generator, and keeps the first hit.
func fanOut(bitSize, cores int, search func(context.Context, *rand.Rand) (*big.Int, error)) (*big.Int, error) {
	if cores < 1 {
		cores = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *big.Int, cores)
	errs := make(chan error, cores)
	var wg sync.WaitGroup
	for w := 0; w < cores; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := search(ctx, newRand())
			if err != nil {
				errs <- err
				return
			}
			results <- p
		}()
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	var firstErr error
	for i := 0; i < cores; i++ {
		select {
		case p := <-results:
			cancel()
			<-done
			return p, nil
		case err := <-errs:
			if firstErr == nil && !isCancel(err) {
				firstErr = err
			}
		}
	}
	<-done
	if firstErr == nil {
		firstErr = fmt.Errorf("%w: no search worker produced a result", ErrWorker)
	}
	return nil, firstErr
}

func isCancel(err error) bool {
	return err == context.Canceled || err == context.DeadlineExceeded
}
