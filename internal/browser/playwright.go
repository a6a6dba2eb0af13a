package browser

import (
	"context"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

// Options configures a browser session.
type Options struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
}

// Driver is a single Chromium page driven through Playwright. It implements
// the agent's BrowserDriver interface. A Driver is exclusively owned by one
// agent run and is not safe for concurrent use.
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	opts    Options
}

// Launch installs Playwright if needed, starts Chromium, and opens a page
// sized to the requested viewport.
func Launch(opts Options) (*Driver, error) {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}

	// Discard driver install/run output so it doesn't interleave with our logs.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, driverErr("install", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, driverErr("start", err)
	}

	chromium, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, driverErr("launch", err)
	}

	browserContext, err := chromium.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	})
	if err != nil {
		_ = chromium.Close()
		_ = pw.Stop()
		return nil, driverErr("context", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		_ = browserContext.Close()
		_ = chromium.Close()
		_ = pw.Stop()
		return nil, driverErr("page", err)
	}

	return &Driver{
		pw:      pw,
		browser: chromium,
		context: browserContext,
		page:    page,
		opts:    opts,
	}, nil
}

// ViewportWidth returns the width of the page viewport in pixels.
func (d *Driver) ViewportWidth() int { return d.opts.ViewportWidth }

// ViewportHeight returns the height of the page viewport in pixels.
func (d *Driver) ViewportHeight() int { return d.opts.ViewportHeight }

// ready guards every operation against use before Launch or after Close, and
// against an already-cancelled context.
func (d *Driver) ready(ctx context.Context, op string) error {
	if d == nil || d.page == nil {
		return driverErr(op, ErrNotStarted)
	}
	if err := ctx.Err(); err != nil {
		return driverErr(op, err)
	}
	return nil
}

// Navigate loads the URL and waits for the network to go idle, so the first
// screenshot shows a fully loaded page.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.ready(ctx, "navigate"); err != nil {
		return err
	}
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return driverErr("navigate", fmt.Errorf("goto %s: %w", url, err))
	}
	return nil
}

// Click presses and releases the left mouse button at page coordinates.
func (d *Driver) Click(ctx context.Context, x int, y int) error {
	if err := d.ready(ctx, "click"); err != nil {
		return err
	}
	if err := d.page.Mouse().Click(float64(x), float64(y)); err != nil {
		return driverErr("click", err)
	}
	return nil
}

// TypeText types a string through the keyboard, character by character.
func (d *Driver) TypeText(ctx context.Context, text string) error {
	if err := d.ready(ctx, "type"); err != nil {
		return err
	}
	if err := d.page.Keyboard().Type(text); err != nil {
		return driverErr("type", err)
	}
	return nil
}

// PressKey presses a single key, e.g. "ArrowUp" or "Enter".
func (d *Driver) PressKey(ctx context.Context, key string) error {
	if err := d.ready(ctx, "key"); err != nil {
		return err
	}
	if err := d.page.Keyboard().Press(key); err != nil {
		return driverErr("key", err)
	}
	return nil
}

// Scroll moves the pointer to (x, y) and dispatches a wheel event with the
// given deltas, in pixels.
func (d *Driver) Scroll(ctx context.Context, x int, y int, deltaX float64, deltaY float64) error {
	if err := d.ready(ctx, "scroll"); err != nil {
		return err
	}
	if err := d.page.Mouse().Move(float64(x), float64(y)); err != nil {
		return driverErr("scroll", err)
	}
	if err := d.page.Mouse().Wheel(deltaX, deltaY); err != nil {
		return driverErr("scroll", err)
	}
	return nil
}

// Screenshot captures the full page as PNG.
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := d.ready(ctx, "screenshot"); err != nil {
		return nil, err
	}
	data, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, driverErr("screenshot", err)
	}
	return data, nil
}

// Close releases the page, context, browser, and the Playwright driver.
// Close is idempotent; operations invoked after Close report ErrNotStarted.
func (d *Driver) Close() error {
	if d == nil || d.page == nil {
		return nil
	}
	// Continue cleanup past individual failures so nothing leaks.
	_ = d.page.Close()
	_ = d.context.Close()
	_ = d.browser.Close()
	err := d.pw.Stop()
	d.page = nil
	d.context = nil
	d.browser = nil
	d.pw = nil
	if err != nil {
		return driverErr("close", err)
	}
	return nil
}
