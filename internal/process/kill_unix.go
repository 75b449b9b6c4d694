//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Configure starts cmd in its own process group and makes context
// cancellation kill the whole group, so helpers spawned by groff (troff,
// grotty) do not outlive it.
func Configure(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		KillGroup(cmd.Process.Pid)
		return nil
	}
}

// KillGroup sends SIGKILL to the process group led by pid.
func KillGroup(pid int) {
	// Best effort; cmd.Wait reports the outcome.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
