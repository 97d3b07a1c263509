// Package app implements the main NES emulator application with GUI support.
package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/debugger"
	"gones/internal/graphics"
	"gones/internal/input"
	"gones/internal/savestate"
)

// Application represents the main NES emulator application
type Application struct {
	bus *bus.Bus

	graphicsBackend graphics.Backend
	window          graphics.Window
	videoProcessor  *graphics.VideoProcessor

	config   *Config
	emulator *Emulator
	saves    *savestate.Manager
	dbg      *debugger.Debugger

	running     bool
	paused      bool
	showMenu    bool
	initialized bool
	headless    bool

	frameCount          uint64
	startTime           time.Time
	lastFPSTime         time.Time
	frameCountAtLastFPS uint64
	currentFPS          float64
	averageFPS          float64
	lastFPSLog          time.Time

	inputTime    time.Duration
	emulatorTime time.Duration
	renderTime   time.Duration

	romPath     string
	romChecksum uint32
	cartridge   *cartridge.Cartridge

	lastESCTime time.Time

	lastController1State  [8]bool
	lastController2State  [8]bool
	inputStateInitialized bool
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

// NewApplication creates a new NES emulator application
func NewApplication(configPath string) (*Application, error) {
	return NewApplicationWithMode(configPath, false)
}

// NewApplicationWithMode creates a new NES emulator application with optional headless mode
func NewApplicationWithMode(configPath string, headless bool) (*Application, error) {
	app := &Application{
		config:      NewConfig(),
		headless:    headless,
		startTime:   time.Now(),
		lastFPSTime: time.Now(),
	}

	if configPath != "" {
		if err := app.config.LoadFromFile(configPath); err != nil {
			fmt.Printf("[APP_WARNING] could not load config from %s, using defaults: %v\n", configPath, err)
		}
	}

	if err := app.initializeComponents(headless); err != nil {
		return nil, &ApplicationError{Component: "initialization", Operation: "component setup", Err: err}
	}

	return app, nil
}

// initializeComponents initializes everything that doesn't need a loaded
// ROM yet. The Bus itself is created in LoadROM, since it's built around
// an already-parsed cartridge mapper.
func (app *Application) initializeComponents(headless bool) error {
	if err := app.initializeGraphicsBackend(headless); err != nil {
		return fmt.Errorf("failed to initialize graphics backend: %w", err)
	}

	saves, err := savestate.NewManager(app.config.Paths.SaveStates, app.config.Emulation.SaveStateSlots)
	if err != nil {
		return fmt.Errorf("failed to initialize save state manager: %w", err)
	}
	app.saves = saves

	app.initialized = true
	return nil
}

func (app *Application) initializeGraphicsBackend(headless bool) error {
	var backendType graphics.BackendType
	if headless {
		backendType = graphics.BackendHeadless
	} else {
		switch app.config.Video.Backend {
		case "ebitengine":
			backendType = graphics.BackendEbitengine
		case "headless":
			backendType = graphics.BackendHeadless
		case "terminal":
			backendType = graphics.BackendTerminal
		default:
			backendType = graphics.BackendEbitengine
		}
	}

	var err error
	app.graphicsBackend, err = graphics.CreateBackend(backendType)
	if err != nil {
		return fmt.Errorf("failed to create graphics backend: %w", err)
	}

	graphicsConfig := graphics.Config{
		WindowTitle:  "gones - Go NES Emulator",
		WindowWidth:  app.config.Window.Width,
		WindowHeight: app.config.Window.Height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		AspectRatio:  app.config.Video.AspectRatio,
		Headless:     headless,
		Debug:        app.config.Debug.EnableLogging,
	}

	if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
		if backendType == graphics.BackendEbitengine {
			fmt.Printf("[APP_WARNING] Ebitengine backend failed (%v), falling back to headless mode\n", err)
			app.graphicsBackend, err = graphics.CreateBackend(graphics.BackendHeadless)
			if err != nil {
				return fmt.Errorf("failed to create fallback headless backend: %w", err)
			}
			graphicsConfig.Headless = true
			if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
				return fmt.Errorf("failed to initialize fallback headless backend: %w", err)
			}
		} else {
			return fmt.Errorf("failed to initialize graphics backend: %w", err)
		}
	}

	if !headless && !app.graphicsBackend.IsHeadless() {
		app.window, err = app.graphicsBackend.CreateWindow(
			graphicsConfig.WindowTitle,
			graphicsConfig.WindowWidth,
			graphicsConfig.WindowHeight,
		)
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
	}

	app.videoProcessor = graphics.NewVideoProcessor(
		app.config.Video.Brightness,
		app.config.Video.Contrast,
		app.config.Video.Saturation,
	)

	return nil
}

// LoadROM loads a ROM file, builds a fresh Bus around its mapper, and
// starts the emulator.
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "read ROM file", Err: err}
	}

	cart, err := cartridge.Load(data)
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}

	app.cartridge = cart
	app.romPath = romPath
	app.romChecksum = savestate.ChecksumROM(data)

	app.bus = bus.New(cart.Mapper)
	app.bus.Reset()

	app.emulator = NewEmulator(app.bus, app.config)
	app.dbg = debugger.New(app.bus)
	app.ApplyDebugSettings()

	if app.window != nil {
		romName := filepath.Base(romPath)
		app.window.SetTitle(fmt.Sprintf("gones - %s", romName))
	}

	app.emulator.Start()
	app.inputStateInitialized = false
	return nil
}

// Run starts the main application loop
func (app *Application) Run() error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	app.running = true
	app.startTime = time.Now()
	app.lastFPSTime = time.Now()

	if app.config.Debug.EnableLogging {
		fmt.Printf("[APP_DEBUG] starting emulator with %s backend\n", app.graphicsBackend.GetName())
	}

	if app.graphicsBackend.GetName() == "Ebitengine" && app.window != nil {
		if ebitengineWindow, ok := graphics.AsEbitengineWindow(app.window); ok {
			ebitengineWindow.SetEmulatorUpdateFunc(func() error {
				frameStart := time.Now()

				inputStart := time.Now()
				if err := app.processInput(); err != nil && app.config.Debug.EnableLogging {
					fmt.Printf("[APP_ERROR] input processing error: %v\n", err)
				}
				app.inputTime = time.Since(inputStart)

				emulatorStart := time.Now()
				if err := app.updateEmulator(); err != nil {
					return err
				}
				app.emulatorTime = time.Since(emulatorStart)

				renderStart := time.Now()
				if err := app.render(); err != nil {
					return err
				}
				app.renderTime = time.Since(renderStart)

				app.updatePerformanceMetrics(frameStart)

				if app.window != nil && app.window.ShouldClose() {
					app.Stop()
				}
				return nil
			})
			return ebitengineWindow.Run()
		}
	}

	for app.running {
		frameStart := time.Now()

		if err := app.processInput(); err != nil && app.config.Debug.EnableLogging {
			fmt.Printf("[APP_ERROR] input processing error: %v\n", err)
		}

		if err := app.updateEmulator(); err != nil && app.config.Debug.EnableLogging {
			fmt.Printf("[APP_DEBUG] emulator update error: %v\n", err)
		}

		if err := app.render(); err != nil && app.config.Debug.EnableLogging {
			fmt.Printf("[APP_ERROR] render error: %v\n", err)
		}

		app.updatePerformanceMetrics(frameStart)

		if app.window != nil && app.window.ShouldClose() {
			app.Stop()
		}

		time.Sleep(16 * time.Millisecond)
	}

	if app.config.Debug.EnableLogging {
		fmt.Println("[APP_DEBUG] emulator main loop ended")
	}
	return nil
}

// updateEmulator advances the emulator by one frame. When the debugger has
// breakpoints or watchpoints armed, the frame is driven instruction-by-
// instruction through app.dbg instead of the emulator's own Bus.RunFrame
// path, so a hit breakpoint actually pauses the app rather than only being
// visible to the debugger's own tests.
func (app *Application) updateEmulator() error {
	if app.paused || app.cartridge == nil {
		return nil
	}
	if app.dbg != nil && app.dbg.Armed() {
		hit, err := app.emulator.UpdateDebug(app.dbg)
		if err != nil {
			return err
		}
		if hit {
			app.paused = true
			if pc, ok := app.dbg.LastBreakpointHit(); ok && app.config.Debug.EnableLogging {
				fmt.Printf("[APP_DEBUG] paused at breakpoint $%04X\n", pc)
			}
		}
		return nil
	}
	return app.emulator.Update()
}

// processInput processes input events from graphics backend
func (app *Application) processInput() error {
	if app.window == nil {
		return nil
	}

	events := app.window.PollEvents()
	if len(events) == 0 {
		return nil
	}

	var controller1Changed, controller2Changed bool
	controller1Buttons := app.lastController1State
	controller2Buttons := app.lastController2State

	for _, event := range events {
		switch event.Type {
		case graphics.InputEventTypeQuit:
			app.Stop()
			return nil

		case graphics.InputEventTypeButton:
			if app.handleSpecialInput(event) {
				continue
			}
			if app.cartridge == nil {
				continue
			}
			if is2PButton(event.Button) {
				if idx := get2PButtonIndex(event.Button); idx >= 0 {
					controller2Buttons[idx] = event.Pressed
					controller2Changed = true
				}
				continue
			}
			if idx := buttonIndex(graphicsButtonToInputButton(event.Button)); idx >= 0 {
				controller1Buttons[idx] = event.Pressed
				controller1Changed = true
			}

		case graphics.InputEventTypeKey:
			if !app.handleSpecialInput(event) {
				app.handleKeyInput(event)
			}
		}
	}

	if controller1Changed && app.bus != nil {
		app.bus.Input.Controller1.SetButtons(controller1Buttons)
		app.lastController1State = controller1Buttons
	}
	if controller2Changed && app.bus != nil {
		app.bus.Input.Controller2.SetButtons(controller2Buttons)
		app.lastController2State = controller2Buttons
	}

	return nil
}

// handleSpecialInput handles non-gameplay key combinations: ESC to quit
// (double-tap within 3s) and F1-F10 for quick save/load.
func (app *Application) handleSpecialInput(event graphics.InputEvent) bool {
	if !event.Pressed {
		return false
	}

	if event.Type == graphics.InputEventTypeKey && event.Key == graphics.KeyEscape {
		now := time.Now()
		if !app.lastESCTime.IsZero() && now.Sub(app.lastESCTime) < 3*time.Second {
			app.Stop()
			return true
		}
		app.lastESCTime = now
		return true
	}
	if event.Type == graphics.InputEventTypeKey && event.Key != graphics.KeyEscape {
		app.lastESCTime = time.Time{}
	}

	if event.Type == graphics.InputEventTypeKey {
		switch event.Key {
		case graphics.KeyF1, graphics.KeyF2, graphics.KeyF3, graphics.KeyF4, graphics.KeyF5,
			graphics.KeyF6, graphics.KeyF7, graphics.KeyF8, graphics.KeyF9, graphics.KeyF10:
			slot := int(event.Key - graphics.KeyF1)
			if event.Modifiers&graphics.ModifierShift != 0 {
				if err := app.LoadState(slot); err != nil {
					fmt.Printf("failed to load state %d: %v\n", slot, err)
				}
			} else {
				if err := app.SaveState(slot); err != nil {
					fmt.Printf("failed to save state %d: %v\n", slot, err)
				}
			}
			return true
		}
	}

	return false
}

func (app *Application) handleKeyInput(event graphics.InputEvent) bool {
	return false
}

func buttonIndex(b input.Button) int {
	switch b {
	case input.ButtonA:
		return 0
	case input.ButtonB:
		return 1
	case input.ButtonSelect:
		return 2
	case input.ButtonStart:
		return 3
	case input.ButtonUp:
		return 4
	case input.ButtonDown:
		return 5
	case input.ButtonLeft:
		return 6
	case input.ButtonRight:
		return 7
	default:
		return -1
	}
}

func graphicsButtonToInputButton(gButton graphics.Button) input.Button {
	switch gButton {
	case graphics.ButtonA:
		return input.ButtonA
	case graphics.ButtonB:
		return input.ButtonB
	case graphics.ButtonSelect:
		return input.ButtonSelect
	case graphics.ButtonStart:
		return input.ButtonStart
	case graphics.ButtonUp:
		return input.ButtonUp
	case graphics.ButtonDown:
		return input.ButtonDown
	case graphics.ButtonLeft:
		return input.ButtonLeft
	case graphics.ButtonRight:
		return input.ButtonRight
	default:
		return input.ButtonA
	}
}

func is2PButton(gButton graphics.Button) bool {
	switch gButton {
	case graphics.Button2A, graphics.Button2B, graphics.Button2Select, graphics.Button2Start,
		graphics.Button2Up, graphics.Button2Down, graphics.Button2Left, graphics.Button2Right:
		return true
	default:
		return false
	}
}

func get2PButtonIndex(gButton graphics.Button) int {
	switch gButton {
	case graphics.Button2A:
		return 0
	case graphics.Button2B:
		return 1
	case graphics.Button2Select:
		return 2
	case graphics.Button2Start:
		return 3
	case graphics.Button2Up:
		return 4
	case graphics.Button2Down:
		return 5
	case graphics.Button2Left:
		return 6
	case graphics.Button2Right:
		return 7
	default:
		return -1
	}
}

// SetControllerButtons sets all button states at once for either pad.
func (app *Application) SetControllerButtons(controller int, buttons [8]bool) {
	if app.bus == nil {
		return
	}
	if controller == 0 {
		app.bus.Input.Controller1.SetButtons(buttons)
	} else {
		app.bus.Input.Controller2.SetButtons(buttons)
	}
}

// GetBus returns the bus for direct access (useful for testing and advanced control)
func (app *Application) GetBus() *bus.Bus {
	return app.bus
}

func (app *Application) render() error {
	if app.window == nil {
		return nil
	}

	if app.cartridge != nil {
		fb := app.bus.FrameBuffer()
		frameBufferSlice := fb[:]
		if app.videoProcessor != nil {
			frameBufferSlice = app.videoProcessor.ProcessFrame(frameBufferSlice)
		}
		var frameBuffer [256 * 240]uint32
		copy(frameBuffer[:], frameBufferSlice)
		if err := app.window.RenderFrame(frameBuffer); err != nil {
			return fmt.Errorf("failed to render NES frame: %w", err)
		}
	}

	app.window.SwapBuffers()
	return nil
}

// updatePerformanceMetrics tracks a simple rolling FPS figure and logs it
// occasionally when debug logging is on.
func (app *Application) updatePerformanceMetrics(frameStart time.Time) {
	now := time.Now()
	app.frameCount++

	if now.Sub(app.lastFPSTime) >= time.Second {
		elapsed := now.Sub(app.lastFPSTime).Seconds()
		framesInPeriod := app.frameCount - app.frameCountAtLastFPS
		app.currentFPS = float64(framesInPeriod) / elapsed

		totalElapsed := now.Sub(app.startTime).Seconds()
		if totalElapsed > 0 {
			app.averageFPS = float64(app.frameCount) / totalElapsed
		}

		app.lastFPSTime = now
		app.frameCountAtLastFPS = app.frameCount

		if app.config.Debug.EnableLogging && now.Sub(app.lastFPSLog) >= 5*time.Second {
			log.Printf("[FPS] current: %.1f | average: %.1f | frame: %d | input: %.2fms | emulator: %.2fms | render: %.2fms",
				app.currentFPS, app.averageFPS, app.frameCount,
				float64(app.inputTime.Microseconds())/1000.0,
				float64(app.emulatorTime.Microseconds())/1000.0,
				float64(app.renderTime.Microseconds())/1000.0)
			app.lastFPSLog = now
		}
	}
}

func (app *Application) Stop()          { app.running = false }
func (app *Application) Pause()         { app.paused = true }
func (app *Application) Resume()        { app.paused = false }
func (app *Application) TogglePause()   { app.paused = !app.paused }
func (app *Application) ShowMenu()      { app.showMenu = true; app.paused = true }
func (app *Application) HideMenu()      { app.showMenu = false; app.paused = false }

func (app *Application) ToggleMenu() {
	if app.showMenu {
		app.HideMenu()
	} else {
		app.ShowMenu()
	}
}

// SaveState saves the current emulator state to a slot
func (app *Application) SaveState(slot int) error {
	if app.cartridge == nil {
		return errors.New("no ROM loaded")
	}
	return app.saves.Save(app.bus, slot, app.romPath, app.romChecksum)
}

// LoadState loads a saved emulator state from a slot
func (app *Application) LoadState(slot int) error {
	if app.cartridge == nil {
		return errors.New("no ROM loaded")
	}
	return app.saves.Load(app.bus, slot, app.romPath, app.romChecksum)
}

// Reset resets the emulator
func (app *Application) Reset() {
	if app.bus != nil {
		app.bus.Reset()
	}
}

func (app *Application) IsRunning() bool     { return app.running }
func (app *Application) IsPaused() bool      { return app.paused }
func (app *Application) IsMenuVisible() bool { return app.showMenu }
func (app *Application) GetFPS() float64     { return app.currentFPS }
func (app *Application) GetFrameCount() uint64          { return app.frameCount }
func (app *Application) GetUptime() time.Duration       { return time.Since(app.startTime) }
func (app *Application) GetROMPath() string             { return app.romPath }
func (app *Application) GetConfig() *Config              { return app.config }

// ApplyDebugSettings wires the config's breakpoint/watchpoint lists into
// the debugger once a ROM (and therefore a Bus) is loaded.
func (app *Application) ApplyDebugSettings() {
	if app.config == nil || app.dbg == nil {
		return
	}

	app.dbg.Logging = app.config.Debug.EnableLogging && app.config.Debug.CPUTracing

	for _, addr := range app.config.Emulation.Breakpoints {
		app.dbg.AddBreakpoint(addr)
	}
	for _, addr := range app.config.Emulation.Watchpoints {
		app.dbg.AddWatchpoint(addr)
	}

	if app.config.Debug.EnableLogging {
		fmt.Printf("[APP_DEBUG] debugger armed with %d breakpoint(s), %d watchpoint(s)\n",
			len(app.config.Emulation.Breakpoints), len(app.config.Emulation.Watchpoints))
	}
}

// Cleanup releases all resources and shuts down the application
func (app *Application) Cleanup() error {
	if app.config != nil && app.config.Debug.EnableLogging {
		fmt.Println("[APP_DEBUG] cleaning up application resources...")
	}

	var lastErr error

	if app.emulator != nil {
		if err := app.emulator.Cleanup(); err != nil {
			lastErr = err
			fmt.Printf("[APP_ERROR] emulator cleanup error: %v\n", err)
		}
	}

	if app.window != nil {
		if err := app.window.Cleanup(); err != nil {
			lastErr = err
			fmt.Printf("[APP_ERROR] window cleanup error: %v\n", err)
		}
	}

	if app.graphicsBackend != nil {
		if err := app.graphicsBackend.Cleanup(); err != nil {
			lastErr = err
			fmt.Printf("[APP_ERROR] graphics backend cleanup error: %v\n", err)
		}
	}

	app.initialized = false
	if app.config != nil && app.config.Debug.EnableLogging {
		fmt.Println("[APP_DEBUG] application cleanup complete")
	}

	return lastErr
}
