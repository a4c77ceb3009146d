package platform

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// SpawnShell starts command with /bin/sh -c and reaps it in the background.
func SpawnShell(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("empty command")
	}

	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %q: %w", command, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("Command %q exited: %v", command, err)
		}
	}()
	return nil
}

// ExportEnvironment sets each variable in the process environment so that
// spawned clients inherit it.
func ExportEnvironment(env map[string]string) error {
	for k, v := range env {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to export %s: %w", k, err)
		}
	}
	return nil
}

// RunStartupScript starts path once if it exists and is executable. A missing
// script is not an error.
func RunStartupScript(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return false, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	cmd := exec.Command(abs)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("failed to start %s: %w", abs, err)
	}
	go cmd.Wait()
	return true, nil
}

// ApplyKeymap sets the X keyboard layout with setxkbmap.
func ApplyKeymap(layout, variant string) error {
	if layout == "" {
		return nil
	}
	args := []string{"-layout", layout}
	if variant != "" {
		args = append(args, "-variant", variant)
	}
	out, err := exec.Command("setxkbmap", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("setxkbmap %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
