package cursor

// Week is the column count of a calendar grid.
const Week = 7

// Grid lays a cursor out in rows of Columns cells. Left and Right step
// through cells using the cursor's policy; Up and Down move a whole row and
// stop at the first and last cell.
type Grid struct {
	Cursor
	Columns int
}

func NewGrid(cells, columns int) Grid {
	if columns <= 0 {
		columns = Week
	}
	return Grid{Cursor: New(cells, Wrap), Columns: columns}
}

func (g *Grid) Left()  { g.Prev() }
func (g *Grid) Right() { g.Next() }
func (g *Grid) Up()    { g.Shift(-g.Columns) }
func (g *Grid) Down()  { g.Shift(g.Columns) }
