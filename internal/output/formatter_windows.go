//go:build windows

package output

import "golang.org/x/sys/windows"

// enableANSI turns on virtual terminal processing for the console behind
// handle. Needs Windows 10 or later.
func enableANSI(handle uintptr) bool {
	h := windows.Handle(handle)

	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
