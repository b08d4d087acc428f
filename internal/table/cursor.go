package table

// Cursor tracks the focused cell for keyboard navigation. Coordinates are
// clamped to the grid; Tab wraps to the next row at the last column.
type Cursor struct {
	Row int
	Col int
}

type Move string

const (
	MoveUp    Move = "up"
	MoveDown  Move = "down"
	MoveLeft  Move = "left"
	MoveRight Move = "right"
	MoveTab   Move = "tab"
)

// Step returns the cursor after one keyboard move within a rows×cols grid.
// An empty grid leaves the cursor where it is.
func (c Cursor) Step(m Move, rows, cols int) Cursor {
	if rows <= 0 || cols <= 0 {
		return c
	}

	next := c
	switch m {
	case MoveUp:
		next.Row--
	case MoveDown:
		next.Row++
	case MoveLeft:
		next.Col--
	case MoveRight:
		next.Col++
	case MoveTab:
		next.Col++
		if next.Col >= cols {
			next.Col = 0
			next.Row++
			if next.Row >= rows {
				next.Row = 0
			}
		}
	}

	if next.Row < 0 {
		next.Row = 0
	}
	if next.Row >= rows {
		next.Row = rows - 1
	}
	if next.Col < 0 {
		next.Col = 0
	}
	if next.Col >= cols {
		next.Col = cols - 1
	}
	return next
}
