package main

import (
	"fmt"
	"sort"
	"sync"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/driver"
	"dicexp/interpreter-go/pkg/interpreter"
)

// sampleRuns evaluates tree n times across workers goroutines. Run i uses
// its own generator seeded with base+i, so the output does not depend on
// scheduling.
func sampleRuns(tree ast.Node, opts interpreter.Options, base uint64, n, workers int) []interpreter.Result {
	results := make([]interpreter.Result, n)
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				runOpts := opts
				runOpts.Seed = base + uint64(i)
				results[i] = interpreter.Execute(tree, runOpts)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// histogram counts final values by their printed form, keeping error kinds
// in a separate bucket.
type histogram struct {
	counts map[string]int
	errors map[string]int
}

func tally(results []interpreter.Result) histogram {
	h := histogram{counts: map[string]int{}, errors: map[string]int{}}
	for _, res := range results {
		if res.Err != nil {
			h.errors[res.Err.Kind.String()]++
			continue
		}
		h.counts[fmt.Sprint(res.Value)]++
	}
	return h
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		var a, b int64
		_, errA := fmt.Sscan(keys[i], &a)
		_, errB := fmt.Sscan(keys[j], &b)
		if errA == nil && errB == nil && a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func runSample(args []string) int {
	var rf runFlags
	fs := newFlagSet("sample", &rf)
	n := fs.Int("n", 100, "number of evaluations")
	workers := fs.Int("workers", 4, "number of concurrent workers")
	each := fs.Bool("each", false, "print every result instead of a histogram")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := rf.resolve(fs); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if *n < 0 {
		fmt.Fprintln(stderr, "-n must not be negative")
		return 1
	}
	tree, err := loadTreeArg(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "failed to load tree: %v\n", err)
		return 1
	}

	results := sampleRuns(tree, rf.options(), rf.configured.Seed, *n, *workers)
	if *each {
		tag := rf.configured.Language()
		for i, res := range results {
			fmt.Fprintf(stdout, "%d\t%s\n", i, driver.NewReport(res, tag, false).Summary())
		}
		return 0
	}
	h := tally(results)
	for _, k := range sortedKeys(h.counts) {
		fmt.Fprintf(stdout, "%s\t%d\n", k, h.counts[k])
	}
	for _, k := range sortedKeys(h.errors) {
		fmt.Fprintf(stdout, "%s\t%d\n", k, h.errors[k])
	}
	return 0
}
