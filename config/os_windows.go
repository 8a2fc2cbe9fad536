//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

const reservedNameChars = `<>":/\|?*;`

// EnableColorOutput switches console stream to virtual terminal processing.
// Consoles older than Windows 10 do not understand escape sequences.
func EnableColorOutput(stream *os.File) bool {
	if windows.RtlGetVersion().MajorVersion < 10 {
		return false
	}
	fd := stream.Fd()
	if !term.IsTerminal(int(fd)) {
		return false
	}
	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(fd), &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(windows.Handle(fd), mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
