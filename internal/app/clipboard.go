package app

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard holds copied text. It uses the system clipboard when one is
// available and always keeps an in-process copy, which is returned when the
// system clipboard cannot be read.
type Clipboard struct {
	mu       sync.Mutex
	register string
	system   bool
	logger   *Logger
}

// NewClipboard creates a clipboard. With useSystem false, or on systems
// without clipboard support, only the in-process register is used.
func NewClipboard(useSystem bool, logger *Logger) *Clipboard {
	if logger == nil {
		logger = NullLogger
	}
	return &Clipboard{
		system: useSystem && !clipboard.Unsupported,
		logger: logger.WithComponent("clipboard"),
	}
}

// Write stores text.
func (c *Clipboard) Write(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.register = text
	if !c.system {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		c.logger.Warn("system clipboard write failed, using internal register: %v", err)
		c.system = false
	}
}

// Read returns the clipboard text.
func (c *Clipboard) Read() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.system {
		return c.register
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		c.logger.Warn("system clipboard read failed: %v", err)
		return c.register
	}
	return text
}

// UsesSystem reports whether the system clipboard is in use.
func (c *Clipboard) UsesSystem() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.system
}
