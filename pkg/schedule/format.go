package schedule

import (
	"fmt"
	"io"
	"strings"
)

// Format writes a human-readable rendering of a fully or partially solved
// node to w: one line per round, each table's seated players in brackets.
// A cell that is not yet closed renders its fixed players followed by "?"
// for each seat still undetermined. This is a supplemented feature (not
// part of the wire protocol) grounded on the original solver's
// format_schedule debug helper.
func (l *Layout) Format(w io.Writer, n Node) error {
	var b strings.Builder
	for r := 0; r < l.RoundCount(); r++ {
		fmt.Fprintf(&b, "round %d:", r)
		for t := 0; t < l.TableCount(); t++ {
			b.WriteString(" [")
			fixed := n.Fixed(r, t)
			first := true
			fixed.Iterate(func(p int) bool {
				if !first {
					b.WriteByte(' ')
				}
				first = false
				fmt.Fprintf(&b, "%d", p)
				return true
			})
			unknown := l.TableSize(t) - fixed.Popcount()
			for i := 0; i < unknown; i++ {
				if !first {
					b.WriteByte(' ')
				}
				first = false
				b.WriteByte('?')
			}
			b.WriteString("]")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
