// 指示: miu200521358
package miter

import (
	"runtime"
	"sync"
)

// IterParallelByList はリストをブロック単位に分割して並列に処理する。
// blockSize が 0 以下の場合は CPU 数で均等に分割する。
func IterParallelByList[T any](allData []T, blockSize int, processFunc func(data T, index int)) {
	if len(allData) == 0 {
		return
	}
	if blockSize <= 0 {
		blockSize = (len(allData) + runtime.NumCPU() - 1) / runtime.NumCPU()
	}

	var wg sync.WaitGroup
	for start := 0; start < len(allData); start += blockSize {
		end := start + blockSize
		if end > len(allData) {
			end = len(allData)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				processFunc(allData[i], i)
			}
		}(start, end)
	}
	wg.Wait()
}

// IterParallelByCount は 0 から total-1 までの添字を並列に処理する。
func IterParallelByCount(total, blockSize int, processFunc func(index int)) {
	indexes := make([]int, total)
	for i := range indexes {
		indexes[i] = i
	}
	IterParallelByList(indexes, blockSize, func(data, _ int) {
		processFunc(data)
	})
}
