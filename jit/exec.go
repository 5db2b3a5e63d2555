//go:build amd64

package jit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Page holds a page of executable machine code. Entry is only valid for
// the lifetime of the Program that produced it; Free must be called when
// the Program is destroyed.
type Page struct {
	mem   []byte
	Entry uintptr
}

// MakeExecutable copies code into a fresh mmap'd page, switches the page
// to read+execute, and returns it ready to call. Grounded in the
// memcp scm-jit reference (allocate RW, write, then mprotect RX); that
// file uses the stdlib syscall package directly, but Tang promotes
// golang.org/x/sys/unix to a direct dependency (see DESIGN.md) and uses
// its mirror of the same two calls instead.
func MakeExecutable(code []byte) (*Page, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("jit: empty code buffer")
	}
	mem, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("jit: mmap: %w", err)
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, fmt.Errorf("jit: mprotect: %w", err)
	}
	return &Page{mem: mem, Entry: entryAddr(mem)}, nil
}

// Free releases the underlying executable page.
func (p *Page) Free() error {
	if p == nil || p.mem == nil {
		return nil
	}
	err := unix.Munmap(p.mem)
	p.mem = nil
	return err
}
