//go:build windows

package theme

import (
	"context"
	"log/slog"
	"os/exec"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/mkarvo/sunshift/pkg/config"
)

const personalizeKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Themes\Personalize`

// Apps reading the Personalize key re-evaluate it on this broadcast.
const settingChangePayload = "ImmersiveColorSet"

const broadcastTimeout = 5 * time.Second

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
)

const (
	hwndBroadcast   = 0xffff
	wmSettingChange = 0x001a
	smtoAbortIfHung = 0x0002
)

// registryApplier writes the two Personalize light-theme values and
// broadcasts WM_SETTINGCHANGE so running apps pick the change up.
type registryApplier struct {
	forceShellRestart bool
	logger            *slog.Logger
}

// NewApplier creates the Windows registry theme applier
func NewApplier(cfg *config.Config, logger *slog.Logger) Applier {
	return &registryApplier{
		forceShellRestart: cfg.ForceShellRestart,
		logger:            logger,
	}
}

// Current reads the configured app theme from the registry
func (a *registryApplier) Current() (Theme, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
	if err != nil {
		// Older Windows versions do not have this key
		return Light, &ApplyError{Op: "registry read", Err: err}
	}
	defer k.Close()

	useLight, _, err := k.GetIntegerValue("AppsUseLightTheme")
	if err != nil {
		return Light, &ApplyError{Op: "registry read", Err: err}
	}
	if useLight == 0 {
		return Dark, nil
	}
	return Light, nil
}

// Apply writes both light-theme values, then notifies running processes
func (a *registryApplier) Apply(ctx context.Context, t Theme) error {
	var value uint32
	if t == Light {
		value = 1
	}

	k, _, err := registry.CreateKey(registry.CURRENT_USER, personalizeKey, registry.SET_VALUE)
	if err != nil {
		return &ApplyError{Op: "registry open", Err: err}
	}
	defer k.Close()

	if err := k.SetDWordValue("AppsUseLightTheme", value); err != nil {
		return &ApplyError{Op: "registry write AppsUseLightTheme", Err: err}
	}
	if err := k.SetDWordValue("SystemUsesLightTheme", value); err != nil {
		return &ApplyError{Op: "registry write SystemUsesLightTheme", Err: err}
	}

	a.logger.Info("Theme written to registry", "theme", t.String())

	// Best-effort broadcast; the registry values are already persisted
	if err := broadcastSettingChange(); err != nil {
		a.logger.Warn("Settings change broadcast failed", "error", err)
		if a.forceShellRestart {
			if err := restartShell(); err != nil {
				a.logger.Warn("Shell restart failed", "error", err)
			} else {
				a.logger.Info("Desktop shell restarted to pick up theme change")
			}
		}
	}

	return nil
}

// broadcastSettingChange sends WM_SETTINGCHANGE to all top-level windows,
// aborting per-window if a receiver hangs.
func broadcastSettingChange() error {
	payload, err := windows.UTF16PtrFromString(settingChangePayload)
	if err != nil {
		return err
	}

	var result uintptr
	r, _, callErr := procSendMessageTimeoutW.Call(
		uintptr(hwndBroadcast),
		uintptr(wmSettingChange),
		0,
		uintptr(unsafe.Pointer(payload)),
		uintptr(smtoAbortIfHung),
		uintptr(broadcastTimeout.Milliseconds()),
		uintptr(unsafe.Pointer(&result)),
	)
	if r == 0 {
		return callErr
	}
	return nil
}

// restartShell kills and relaunches explorer.exe, which re-reads the
// Personalize values on startup.
func restartShell() error {
	if err := exec.Command("taskkill", "/f", "/im", "explorer.exe").Run(); err != nil {
		return err
	}
	return exec.Command("explorer.exe").Start()
}
