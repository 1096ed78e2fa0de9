//go:build windows

package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mkarvo/sunshift/pkg/config"
)

// schtasksScheduler registers tasks by feeding generated task XML to
// schtasks.exe. /F replaces any existing registration under the same name.
type schtasksScheduler struct {
	taskFolder string
	taskName   string
	command    string
	logger     *slog.Logger
}

// NewScheduler creates the Windows task scheduler integration
func NewScheduler(cfg *config.Config, logger *slog.Logger) (Scheduler, error) {
	command := cfg.ScriptPath
	if command == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable path: %w", err)
		}
		command = exe
	}

	return &schtasksScheduler{
		taskFolder: cfg.TaskFolder,
		taskName:   cfg.TaskName,
		command:    command,
		logger:     logger,
	}, nil
}

// ScheduleOnce registers a one-shot trigger at the given instant
func (s *schtasksScheduler) ScheduleOnce(ctx context.Context, at time.Time, label string) error {
	xmlBody, err := buildOnceTaskXML(s.command, at, label)
	if err != nil {
		return err
	}

	path := s.taskPath(s.taskName)
	if err := s.register(ctx, path, xmlBody); err != nil {
		return err
	}

	s.logger.Info("One-shot task registered", "task", path, "trigger", at, "label", label)
	return nil
}

// ScheduleAtLogon registers a trigger fired at each user logon
func (s *schtasksScheduler) ScheduleAtLogon(ctx context.Context) error {
	xmlBody, err := buildLogonTaskXML(s.command, "re-evaluate theme at logon")
	if err != nil {
		return err
	}

	path := s.taskPath(s.taskName + "-logon")
	if err := s.register(ctx, path, xmlBody); err != nil {
		return err
	}

	s.logger.Info("Logon task registered", "task", path)
	return nil
}

func (s *schtasksScheduler) taskPath(name string) string {
	folder := strings.TrimSuffix(s.taskFolder, `\`)
	return folder + `\` + name
}

func (s *schtasksScheduler) register(ctx context.Context, taskPath string, xmlBody []byte) error {
	tmp, err := os.CreateTemp("", "sunshift-task-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create task XML file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(xmlBody); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write task XML file: %w", err)
	}
	tmp.Close()

	cmd := exec.CommandContext(ctx, "schtasks", "/Create", "/TN", taskPath, "/XML", tmp.Name(), "/F")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("schtasks registration of %s failed: %w: %s", taskPath, err, strings.TrimSpace(string(out)))
	}
	return nil
}
