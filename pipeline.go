package narrowphase

import "sync"

// task splits data into one contiguous chunk per worker and calls fn on every element.
// fn receives the element index so workers can write results without locking.
// A single worker runs on the calling goroutine.
func task[T any](workersCount int, data []T, fn func(i int, data T)) {
	dataSize := len(data)
	workersCount = max(1, min(workersCount, dataSize))
	if workersCount == 1 {
		for i, d := range data {
			fn(i, d)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount
	for start := 0; start < dataSize; start += chunkSize {
		start := start // per-iteration copy; go.mod targets go1.21 loop semantics
		end := min(start+chunkSize, dataSize)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
		}()
	}
	wg.Wait()
}
