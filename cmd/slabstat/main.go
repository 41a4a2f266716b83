package main

import "fmt"
import "flag"
import "math/rand"
import "sort"
import "unsafe"

import hm "github.com/dustin/go-humanize"

import "github.com/bnclabs/slabpool/chunk"
import "github.com/bnclabs/slabpool/lib"
import "github.com/bnclabs/slabpool/slab"

var options struct {
	n       int
	minsize int
	maxsize int
	stats   bool
	pretty  bool
}

func argParse() {
	flag.IntVar(&options.n, "n", 100000,
		"number of allocate/free cycles to simulate")
	flag.IntVar(&options.minsize, "minsize", 1,
		"minimum payload size to request")
	flag.IntVar(&options.maxsize, "maxsize", 511,
		"maximum payload size to request")
	flag.BoolVar(&options.stats, "stats", false,
		"dump the per-class requested-size and residency stats")
	flag.BoolVar(&options.pretty, "pretty", false,
		"indent the -stats JSON output")
	flag.Parse()
}

func main() {
	argParse()
	r := slab.NewRouter(slab.Defaultsettings(), chunk.Default())
	defer r.Close()

	workload(r)
	tellutilization(r)
	if options.stats {
		tellstats(r)
	}
}

func tellstats(r *slab.Router) {
	classes, _ := r.Utilization()
	for i := range classes {
		stats := r.Stats(i)
		if stats == nil {
			continue
		}
		fmt.Printf("size %-8v %v\n", hm.Bytes(uint64(classes[i])),
			lib.Prettystats(stats, options.pretty))
	}
}

type live struct {
	ptr  unsafe.Pointer
	size int
}

// workload drives a synthetic churn of allocate/free pairs across the
// requested size range, holding a random subset of blocks at any one
// time so the pools and thread caches see realistic occupancy rather
// than a pure allocate-then-drain pattern.
func workload(r *slab.Router) {
	var outstanding []live

	for i := 0; i < options.n; i++ {
		if len(outstanding) > 0 && rand.Intn(3) == 0 {
			idx := rand.Intn(len(outstanding))
			entry := outstanding[idx]
			outstanding[idx] = outstanding[len(outstanding)-1]
			outstanding = outstanding[:len(outstanding)-1]
			r.Free(entry.ptr)
			continue
		}
		size := options.minsize + rand.Intn(options.maxsize-options.minsize+1)
		ptr, err := r.Alloc(size)
		if err != nil {
			fmt.Printf("alloc(%v) failed: %v\n", size, err)
			continue
		}
		outstanding = append(outstanding, live{ptr: ptr, size: size})
	}

	for _, entry := range outstanding {
		r.Free(entry.ptr)
	}
}

func tellutilization(r *slab.Router) {
	classes, pct := r.Utilization()

	idx := make([]int, len(classes))
	for i := range idx {
		idx[i] = i
	}
	sort.Ints(idx)

	fmt.Printf("%v size pools\n", len(classes))
	for _, i := range idx {
		fmt.Printf("size %-8v util %6.2f%%\n", hm.Bytes(uint64(classes[i])), pct[i])
	}
}
