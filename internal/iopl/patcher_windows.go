//go:build windows && amd64

package iopl

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/HoShiMin/BeeSynth/internal/physmem"
)

const (
	threadSuspendResume = 0x0002
	threadGetContext    = 0x0008
	threadSetContext    = 0x0010
)

var (
	procOpenThread         = modKernel32.NewProc("OpenThread")
	procSuspendThread      = modKernel32.NewProc("SuspendThread")
	procResumeThread       = modKernel32.NewProc("ResumeThread")
	procGetCurrentThreadID = modKernel32.NewProc("GetCurrentThreadId")
)

func openCurrentThread() (windows.Handle, error) {
	tid, _, _ := procGetCurrentThreadID.Call()
	access := uintptr(threadSuspendResume | threadGetContext | threadSetContext)
	h, _, err := procOpenThread.Call(access, 0, tid)
	if h == 0 {
		return 0, err
	}
	return windows.Handle(h), nil
}

func suspendThread(handle windows.Handle) error {
	r1, _, err := procSuspendThread.Call(uintptr(handle))
	if int32(r1) == -1 {
		return err
	}
	return nil
}

func resumeThread(handle windows.Handle) error {
	r1, _, err := procResumeThread.Call(uintptr(handle))
	if int32(r1) == -1 {
		return err
	}
	return nil
}

// contextKeeper restores the thread's original context exactly once,
// either when the patch succeeds (dropped early, before the eflags write)
// or when the worker returns via defer.
type contextKeeper struct {
	handle   windows.Handle
	original context
	restored bool
}

func (k *contextKeeper) restore() {
	if k.restored {
		return
	}
	_ = setThreadContext(k.handle, &k.original)
	k.restored = true
}

// prepareContext installs the marker registers into T's context and
// returns both a keeper that restores the pristine context and the
// {rip, rsp} state the scan must match, mirroring
// original_source/iopl/src/windows/patcher_impl.rs prepare_context.
func prepareContext(handle windows.Handle) (*contextKeeper, threadState, error) {
	var original context
	if err := getThreadContext(handle, &original); err != nil {
		return nil, threadState{}, fmt.Errorf("%w: %v", ErrGetContext, err)
	}

	marked := original
	marked.Rax = markRax
	marked.Rcx = markRcx
	marked.Rdx = markRdx
	marked.R8 = markR8
	marked.R9 = markR9

	if err := setThreadContext(handle, &marked); err != nil {
		return nil, threadState{}, fmt.Errorf("%w: %v", ErrSetContext, err)
	}
	keeper := &contextKeeper{handle: handle, original: original}

	var confirmed context
	if err := getThreadContext(handle, &confirmed); err != nil {
		keeper.restore()
		return nil, threadState{}, fmt.Errorf("%w: %v", ErrGetContext, err)
	}

	return keeper, threadState{rip: confirmed.Rip, rsp: confirmed.Rsp}, nil
}

func bytesToUint32(b []byte) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/4)
}

// Patch elevates the calling thread's IOPL to level by locating its saved
// trap frame in physical memory and OR-ing the IOPL bits into the saved
// eflags word. mapper provides the physical-memory view (an already-open
// driver handle, injected rather than held as a package-level global per
// stopflag's precedent). Ported from
// original_source/iopl/src/windows/iopl_patcher.rs.
func Patch(mapper physmem.Mapper, level Level) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	handle, err := openCurrentThread()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrThreadOpening, err)
	}
	defer windows.CloseHandle(handle)

	h := newHandoff()
	status := ErrEflagsNotFound

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.waitReady()
		status = patchWorker(mapper, handle, level)
		h.signalDone()
	}()

	h.signalReady()
	h.waitDone()
	wg.Wait()

	return status
}

func patchWorker(mapper physmem.Mapper, threadHandle windows.Handle, level Level) error {
	regions, err := physmem.GetPhysicalMemoryRanges()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEnumPhysRegions, err)
	}
	regions = physmem.FilterReadWrite(regions)
	if len(regions) == 0 {
		return ErrNoPhysicalRegions
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Size > regions[j].Size })

	if err := suspendThread(threadHandle); err != nil {
		return fmt.Errorf("unable to suspend thread: %w", err)
	}
	defer resumeThread(threadHandle)

	keeper, state, err := prepareContext(threadHandle)
	if err != nil {
		return err
	}
	defer keeper.restore()

	cpuCount := physmem.NumCPU()
	frameSize := uint64(unsafe.Sizeof(TrapFrame{}))

	for _, region := range regions {
		if region.Size < frameSize {
			continue
		}

		mapping, err := mapper.Map(region.Beginning, region.Size)
		if err != nil {
			continue
		}

		words := bytesToUint32(mapping.Bytes())
		idx := findEflags(words, state, cpuCount)
		if idx >= 0 {
			keeper.restore()

			ptr := &words[idx]
			for {
				old := atomic.LoadUint32(ptr)
				next := old | (uint32(level) << eflagsIOPLOffset)
				if atomic.CompareAndSwapUint32(ptr, old, next) {
					break
				}
			}

			_ = mapping.Unmap()
			return nil
		}

		_ = mapping.Unmap()
	}

	return ErrEflagsNotFound
}
