package apple

import "sync"

// Text screen geometry, per the 40-column Apple II.
const (
	Columns = 40
	Rows    = 24
)

// Screen is a minimal 40x24 text display fed by the keyboard port's 7-bit
// codes, enough to watch the bridge working: printables advance a cursor,
// carriage return starts a new line, the arrow codes move the cursor the way
// the Apple II monitor treats them.
type Screen struct {
	mu    sync.Mutex
	cells [Rows][Columns]byte
	cx    int
	cy    int
	gen   uint64
}

func NewScreen() *Screen {
	s := &Screen{}
	s.clearLocked()
	return s
}

func (s *Screen) clearLocked() {
	for y := 0; y < Rows; y++ {
		for x := 0; x < Columns; x++ {
			s.cells[y][x] = ' '
		}
	}
	s.cx, s.cy = 0, 0
	s.gen++
}

// Key consumes one 7-bit code from the port.
func (s *Screen) Key(code byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++

	switch {
	case code == 0x0D: // carriage return
		s.cx = 0
		s.lineFeedLocked()
	case code == 0x08: // left arrow
		if s.cx > 0 {
			s.cx--
		}
	case code == 0x15: // right arrow
		if s.cx < Columns-1 {
			s.cx++
		}
	case code >= 0x20 && code < 0x7F:
		s.cells[s.cy][s.cx] = code
		s.cx++
		if s.cx == Columns {
			s.cx = 0
			s.lineFeedLocked()
		}
	default:
		// other control codes are for the program on the other side,
		// not the screen
	}
}

func (s *Screen) lineFeedLocked() {
	s.cy++
	if s.cy < Rows {
		return
	}
	s.cy = Rows - 1
	copy(s.cells[:], s.cells[1:])
	for x := 0; x < Columns; x++ {
		s.cells[Rows-1][x] = ' '
	}
}

// Cells returns a snapshot of the text matrix.
func (s *Screen) Cells() [Rows][Columns]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells
}

// Cursor returns the current cursor column and row.
func (s *Screen) Cursor() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cx, s.cy
}

// Generation increments on every change; the renderer uses it to skip
// repainting an unchanged screen.
func (s *Screen) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Line returns row y as a trimmed string, for tests and the terminal front
// end.
func (s *Screen) Line(y int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	end := Columns
	for end > 0 && s.cells[y][end-1] == ' ' {
		end--
	}
	return string(s.cells[y][:end])
}
