package launch

import (
	"fmt"
	"os/exec"
)

// spawnCommand starts name with args, detached from our stdio. The child is
// reaped in the background so it never zombies while the launcher is still
// watching for its window; once the launcher exits the child runs on alone.
func spawnCommand(name string, args []string, display, xauthority string) (int, error) {
	cmd := exec.Command(name, args...)
	ensureSpawnEnv(cmd, display, xauthority)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to launch %s: %w", name, err)
	}
	pid := cmd.Process.Pid
	go func() { _ = cmd.Wait() }()
	return pid, nil
}
