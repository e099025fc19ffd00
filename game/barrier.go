package game

import "sync"

// RunAll starts every worker in its own goroutine and blocks until all
// of them have returned. It returns the first error reported, if any.
func RunAll(workers ...func() error) error {
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for _, worker := range workers {
		wg.Add(1)
		go func(worker func() error) {
			defer wg.Done()

			if err := worker(); err != nil {
				errOnce.Do(func() {
					firstErr = err
				})
			}
		}(worker)
	}

	wg.Wait()
	return firstErr
}
