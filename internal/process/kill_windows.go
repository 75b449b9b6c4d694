//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// Configure makes context cancellation kill cmd and its children.
func Configure(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		KillGroup(cmd.Process.Pid)
		return nil
	}
}

// KillGroup kills a process tree using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillGroup(pid int) {
	// Best effort; cmd.Wait reports the outcome.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
