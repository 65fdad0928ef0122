//go:build windows && amd64

package iopl

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// eflagsOffset is offsetof(TrapFrame, eflags), the original's offset_of!
// macro reduced to unsafe.Offsetof since Go computes this at compile time.
var eflagsOffset = unsafe.Offsetof(TrapFrame{}.Eflags)

// isDesiredEflags reinterprets the word at index i of words as a candidate
// eflags field and checks whether walking backwards by eflagsOffset lands
// on a TrapFrame carrying our markers and this thread's rip/rsp/ss.
func isDesiredEflags(words []uint32, i int, state threadState) bool {
	base := uintptr(unsafe.Pointer(&words[i])) - eflagsOffset
	frame := (*TrapFrame)(unsafe.Pointer(base))

	return frame.Rax == markRax &&
		frame.Rcx == markRcx &&
		frame.Rdx == markRdx &&
		frame.R8 == markR8 &&
		frame.R9 == markR9 &&
		frame.Rip == state.rip &&
		frame.Rsp == state.rsp &&
		frame.SegSs == segSSUser64
}

// firstSearchIndex skips the leading bytes of the mapping that correspond
// to sizeof(context), mirroring the original's FIRST_INDEX computation:
// the marked context was installed there and can't itself hold a trap
// frame we're searching for.
func firstSearchIndex() int {
	wordsForContext := int(unsafe.Sizeof(context{})) / 4
	if unsafe.Sizeof(context{})%4 != 0 {
		wordsForContext++
	}
	return wordsForContext
}

const multithreadingSizeThreshold = 256 * 1_048_576

// findEflags scans a mapped physical region, interpreted as 32-bit words,
// for the one candidate eflags word whose enclosing TrapFrame matches
// state. Returns -1 if not found. Ported from
// original_source/iopl/src/windows/patcher_impl.rs find_eflags.
func findEflags(words []uint32, state threadState, cpuCount int) int {
	first := firstSearchIndex()
	if first >= len(words) {
		return -1
	}
	search := words[first:]

	var found int
	if len(words) >= multithreadingSizeThreshold {
		found = findByMultipleThreads(search, state, cpuCount)
	} else {
		found = findBySingleThread(search, state)
	}
	if found < 0 {
		return -1
	}
	return first + found
}

func findBySingleThread(words []uint32, state threadState) int {
	for i := range words {
		if isDesiredEflags(words, i, state) {
			return i
		}
	}
	return -1
}

// findByMultipleThreads splits words into cpuCount contiguous chunks and
// races goroutines to completion, mirroring the per-CPU thread::scope fan
// out in the original. Go has no thread-affinity primitive, so each
// goroutine simply scans its chunk; cpuCount bounds the fan-out instead of
// pinning physical cores.
func findByMultipleThreads(words []uint32, state threadState, cpuCount int) int {
	if cpuCount < 1 {
		cpuCount = 1
	}
	chunkSize := len(words) / cpuCount
	if chunkSize == 0 {
		chunkSize = len(words)
	}

	var found atomic.Int64
	found.Store(-1)

	var wg sync.WaitGroup
	for start := 0; start < len(words); start += chunkSize {
		end := start + chunkSize
		if end > len(words) || start+chunkSize*2 > len(words) {
			end = len(words)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if found.Load() >= 0 {
					return
				}
				if isDesiredEflags(words, i, state) {
					found.CompareAndSwap(-1, int64(i))
					return
				}
			}
		}(start, end)

		if end == len(words) {
			break
		}
	}

	wg.Wait()
	return int(found.Load())
}
