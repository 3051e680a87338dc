//go:build linux

package vcsa

import (
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// gioUnimap is the console ioctl returning the active Unicode-to-font map.
const gioUnimap = 0x4B66

type unipair struct {
	unicode uint16
	fontpos uint16
}

type unimapdesc struct {
	entryCt uint16
	entries *unipair
}

// queryFontTable reads the Unicode map of the console backing devicePath.
// Any failure degrades to the CP437 fallback table.
func queryFontTable(devicePath string) *fontTable {
	console := consolePath(devicePath)
	if console == "" {
		return &fontTable{}
	}
	f, err := os.OpenFile(console, os.O_RDONLY, 0)
	if err != nil {
		return &fontTable{}
	}
	defer f.Close()

	// First call sized zero: the kernel reports the required entry count
	// in the descriptor and fails with ENOMEM.
	var desc unimapdesc
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), gioUnimap, uintptr(unsafe.Pointer(&desc)))
	if errno != unix.ENOMEM || desc.entryCt == 0 {
		return &fontTable{}
	}

	pairs := make([]unipair, desc.entryCt)
	desc.entries = &pairs[0]
	_, _, errno = unix.Syscall(unix.SYS_IOCTL, f.Fd(), gioUnimap, uintptr(unsafe.Pointer(&desc)))
	if errno != 0 {
		return &fontTable{}
	}

	m := make(map[rune]byte, desc.entryCt)
	for _, p := range pairs[:desc.entryCt] {
		// Positions past the first 256 glyphs need the attribute byte's
		// high bit and cannot be encoded in the char byte alone.
		if p.fontpos > 0xFF {
			continue
		}
		if _, ok := m[rune(p.unicode)]; !ok {
			m[rune(p.unicode)] = byte(p.fontpos)
		}
	}
	return &fontTable{m: m}
}

// consolePath maps a vcsa device path to its owning virtual terminal:
// /dev/vcsa2 pairs with /dev/tty2, the bare /dev/vcsa with the current
// console. Paths outside /dev/vcsa* have no console to query.
func consolePath(devicePath string) string {
	suffix, ok := strings.CutPrefix(devicePath, "/dev/vcsa")
	if !ok {
		return ""
	}
	if suffix == "" {
		return "/dev/tty0"
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return "/dev/tty" + suffix
}
