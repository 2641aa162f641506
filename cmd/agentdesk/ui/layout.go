package ui

// Layout constants for panel sizing
const (
	HeaderHeight    = 1
	FooterHeight    = 1
	StatusBarHeight = 1
	InputHeight     = 3
	SectionGap      = 1

	// Skill side panel. The list title takes MenuTitleHeight rows (text plus
	// bottom padding); items follow, separated by MenuItemSpacing blank rows.
	DefaultMenuWidth = 36
	MinMenuWidth     = 24
	MenuTitleHeight  = 2
	MenuItemHeight   = 2
	MenuItemSpacing  = 1

	ContentPaddingH = 2

	// Responsive breakpoints
	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 16
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	MenuWidth      int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size.
// The menu takes at most half the terminal.
func NewLayoutConfig(width, height, menuWidth int) LayoutConfig {
	if menuWidth <= 0 {
		menuWidth = DefaultMenuWidth
	}
	if menuWidth < MinMenuWidth {
		menuWidth = MinMenuWidth
	}
	if half := width / 2; menuWidth > half && half >= MinMenuWidth {
		menuWidth = half
	}
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		MenuWidth:      menuWidth,
		IsCompact:      width < CompactModeWidth,
	}
}

// MainWidth is the width of the main view, narrowed while the menu is open.
func (l LayoutConfig) MainWidth(menuOpen bool) int {
	w := l.TerminalWidth
	if menuOpen {
		w -= l.MenuWidth
	}
	if w < 1 {
		return 1
	}
	return w
}

// ContentWidth is the usable text width inside the main view.
func (l LayoutConfig) ContentWidth(menuOpen bool) int {
	w := l.MainWidth(menuOpen) - ContentPaddingH*2
	if w < 10 {
		return 10
	}
	return w
}

// ViewportHeight is the height left for the result viewport.
func (l LayoutConfig) ViewportHeight() int {
	h := l.TerminalHeight - HeaderHeight - FooterHeight - StatusBarHeight - InputHeight - SectionGap*2
	if h < 3 {
		return 3
	}
	return h
}

// MenuHeight is the height of the side panel.
func (l LayoutConfig) MenuHeight() int {
	h := l.TerminalHeight - HeaderHeight - FooterHeight
	if h < 3 {
		return 3
	}
	return h
}

// InMenu reports whether a cell at column x belongs to the open side panel.
// Everything left of the panel is the overlay.
func (l LayoutConfig) InMenu(x int) bool {
	return x >= l.TerminalWidth-l.MenuWidth
}

// MenuSlot maps screen row y to the item slot on the current menu page. It
// returns false for the title, spacing rows and anything above the panel.
func (l LayoutConfig) MenuSlot(y int) (int, bool) {
	row := y - HeaderHeight - MenuTitleHeight
	if row < 0 || row >= l.MenuHeight()-MenuTitleHeight {
		return 0, false
	}
	stride := MenuItemHeight + MenuItemSpacing
	if row%stride >= MenuItemHeight {
		return 0, false
	}
	return row / stride, true
}

// TooSmall reports whether the terminal is below the supported size.
func (l LayoutConfig) TooSmall() bool {
	return l.TerminalWidth < MinimumTerminalWidth || l.TerminalHeight < MinimumTerminalHeight
}
