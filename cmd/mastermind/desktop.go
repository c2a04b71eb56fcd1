//go:build desktop

package cli

import (
	"context"
	"embed"
	"fmt"
	"os"
	goruntime "runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/mastermind-ai/mastermind/internal/config"
	"github.com/mastermind-ai/mastermind/internal/crashlog"
	"github.com/mastermind-ai/mastermind/internal/logging"
	"github.com/mastermind-ai/mastermind/internal/platform"
	"github.com/mastermind-ai/mastermind/internal/shell"
	"github.com/mastermind-ai/mastermind/internal/windowstate"
)

//go:embed all:frontend/dist
var assets embed.FS

// RunDesktop starts Mastermind with its native window.
func RunDesktop() {
	env, err := prepare(baseConfig())
	if err != nil {
		fatalf("%v", err)
	}
	cfg := env.Config
	crashlog.Init(env.DataDir)
	logging.Infof("[Desktop] API key loaded from %s %s (%s)", env.Credential.Source, env.Credential.Name, env.Credential.Masked())

	// Enforce single instance with lock file
	lockFile, err := acquireLock(env.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError: %v\033[0m\n", err)
		fmt.Fprintln(os.Stderr, "\033[33mMastermind is already running.\033[0m")
		os.Exit(1)
	}
	defer releaseLock(lockFile)

	plat := platform.Native()
	mainWindow := &shell.WindowRef{}
	sh, err := shell.New(shell.Options{
		APIKey:   env.Credential.Value,
		Platform: plat,
		Relay:    env.Relay,
		Window:   mainWindow,
	})
	if err != nil {
		fatalf("%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Follow relay.base_url edits without a restart.
	go func() {
		defer crashlog.Recover("config-watch")
		err := config.Watch(ctx, env.ConfigPath, baseConfig(), func(c config.Config) {
			env.Relay.SetBaseURL(c.Relay.BaseURL)
		})
		if err != nil {
			crashlog.LogError("config-watch", err, map[string]string{"path": env.ConfigPath})
			logging.Warnf("[Desktop] Config watcher stopped: %v", err)
		}
	}()

	wailsApp := application.New(application.Options{
		Name:        cfg.App.Name,
		Description: cfg.App.Description,
		Services: []application.Service{
			application.NewService(sh),
		},
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: true,
		},
		OnShutdown: func() {
			logging.Info("[Desktop] Mastermind stopped")
		},
	})

	// Restore saved window size (position restored after runtime init)
	winWidth, winHeight := cfg.Window.Width, cfg.Window.Height
	saved := windowstate.Load(env.DataDir)
	if saved != nil {
		winWidth = saved.Width
		winHeight = saved.Height
	}

	window := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:      "main",
		Title:     cfg.Window.Title,
		Width:     winWidth,
		Height:    winHeight,
		MinWidth:  cfg.Window.MinWidth,
		MinHeight: cfg.Window.MinHeight,
		URL:       "/",
		Mac: application.MacWindow{
			Backdrop:                macBackdrop(cfg.Window),
			InvisibleTitleBarHeight: 50,
			TitleBar: application.MacTitleBar{
				AppearsTransparent: true,
				HideTitle:          true,
				FullSizeContent:    cfg.Window.FullSizeContent,
			},
		},
	})
	handle := wailsWindow{win: window}
	mainWindow.Set(handle)

	wailsApp.Menu.Set(buildMenu(wailsApp, window))

	// Chrome is applied once the native window exists. Without it the UI
	// draws under a titlebar it does not expect, so failure is fatal.
	var cosmeticsOnce sync.Once
	window.OnWindowEvent(events.Common.WindowRuntimeReady, func(_ *application.WindowEvent) {
		cosmeticsOnce.Do(func() {
			h, err := handle.NativeHandle()
			if err == nil {
				err = plat.ApplyCosmetics(h, platform.Cosmetics{
					Translucent:     cfg.Window.Translucent,
					FullSizeContent: cfg.Window.FullSizeContent,
				})
			}
			if err != nil {
				crashlog.LogError("platform", err, map[string]string{"platform": plat.Name()})
				fatalf("window setup failed on %s: %v", plat.Name(), err)
			}
			logging.Debugf("[Desktop] Window chrome applied (%s)", plat.Name())
		})
	})

	// Gate saves until after restore is complete so initial placement doesn't overwrite saved state
	var stateRestored atomic.Bool
	var quitting atomic.Bool

	// Windows (WebView2) needs a longer delay than macOS (WebKit).
	restoreDelay := 200 * time.Millisecond
	if goruntime.GOOS == "windows" {
		restoreDelay = 500 * time.Millisecond
	}
	if saved != nil {
		go func() {
			defer crashlog.Recover("window-restore")
			time.Sleep(restoreDelay)
			window.SetPosition(saved.X, saved.Y)
			stateRestored.Store(true)
		}()
	} else {
		stateRestored.Store(true)
	}

	save := func() {
		if err := windowstate.Save(env.DataDir, windowstate.Capture(window)); err != nil {
			logging.Warnf("[Desktop] %v", err)
		}
	}
	saveMoveResize := func(_ *application.WindowEvent) {
		if stateRestored.Load() && !quitting.Load() {
			save()
		}
	}
	window.RegisterHook(events.Common.WindowDidMove, saveMoveResize)
	window.RegisterHook(events.Common.WindowDidResize, saveMoveResize)
	window.RegisterHook(events.Common.WindowClosing, func(_ *application.WindowEvent) {
		quitting.Store(true)
		save()
	})

	// Run Wails event loop on main thread (blocks until app.Quit()).
	// macOS requires the event loop on the main thread for window operations.
	if err := wailsApp.Run(); err != nil {
		crashlog.LogError("desktop", err, nil)
		fatalf("desktop: %v", err)
	}
}

// buildMenu creates the application menu: Copy, Paste, and File with
// Quit and Close.
func buildMenu(app *application.App, window *application.WebviewWindow) *application.Menu {
	menu := app.NewMenu()
	if goruntime.GOOS == "darwin" {
		menu.AddRole(application.AppMenu)
	}

	edit := menu.AddSubmenu("Edit")
	edit.AddRole(application.Copy)
	edit.AddRole(application.Paste)

	file := menu.AddSubmenu("File")
	file.Add("Quit").SetAccelerator("CmdOrCtrl+Q").OnClick(func(_ *application.Context) {
		safeQuit(app)
	})
	file.Add("Close").SetAccelerator("CmdOrCtrl+W").OnClick(func(_ *application.Context) {
		window.Close()
	})

	return menu
}

func macBackdrop(w config.WindowConfig) application.MacBackdrop {
	if w.Translucent {
		return application.MacBackdropTranslucent
	}
	return application.MacBackdropNormal
}

// safeQuit calls App.Quit() with recovery from Wails v3 alpha panics
// during tray/window teardown.
func safeQuit(app *application.App) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[Desktop] Recovered from quit panic: %v\n", r)
			os.Exit(0)
		}
	}()
	app.Quit()
}

// wailsWindow adapts a Wails WebviewWindow to shell.Window.
type wailsWindow struct {
	win *application.WebviewWindow
}

func (w wailsWindow) ToggleFullscreen() { w.win.ToggleFullscreen() }

// NativeHandle returns the NSWindow on macOS (HWND / GtkWindow elsewhere).
func (w wailsWindow) NativeHandle() (uintptr, error) { return platform.Handle(w.win.NativeWindow()) }
