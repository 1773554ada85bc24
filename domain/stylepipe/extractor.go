package stylepipe

import (
	"fmt"
	"iter"
)

// ModuleGrid is the uniform sampling grid laid over one RenderedSymbol.
type ModuleGrid struct {
	symbol *RenderedSymbol
	cell   int
}

// ExtractGrid lays a grid of stride floor(S/33) over sym.
//
// The stride is an approximation: it is not derived from the symbol's real
// QR version, and each cell is classified from its top-left pixel rather
// than its centre.
func ExtractGrid(sym *RenderedSymbol) (*ModuleGrid, error) {
	if !sym.Ready() {
		return nil, ErrSourceNotReady
	}

	cell := sym.Side() / ApproxModuleCount
	if cell <= 0 {
		return nil, fmt.Errorf("%w: side %dpx is below %dpx", ErrInvalidDimension, sym.Side(), ApproxModuleCount)
	}

	return &ModuleGrid{symbol: sym, cell: cell}, nil
}

// CellSize is the stride and module side in pixels.
func (g *ModuleGrid) CellSize() int {
	return g.cell
}

// Samples yields every grid point, dark or light, row by row.
func (g *ModuleGrid) Samples() iter.Seq[ModuleCell] {
	return func(yield func(ModuleCell) bool) {
		side := g.symbol.Side()
		for y := 0; y < side; y += g.cell {
			for x := 0; x < side; x += g.cell {
				c := ModuleCell{
					X:    x,
					Y:    y,
					Size: g.cell,
					Dark: g.symbol.red(x, y) < darkThreshold,
				}
				if !yield(c) {
					return
				}
			}
		}
	}
}

// Modules yields only the dark samples. Light cells are never materialized.
func (g *ModuleGrid) Modules() iter.Seq[ModuleCell] {
	return func(yield func(ModuleCell) bool) {
		for c := range g.Samples() {
			if c.Dark && !yield(c) {
				return
			}
		}
	}
}
