package checklist

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultReceiptWidth = 48
	DefaultRowsPerPage  = 30

	minReceiptWidth = 24
)

// Export formats
const (
	FormatReceipt  = "receipt"
	FormatDocument = "document"
)

// View is the single projection rendered on screen, in the paginated document and on
// the receipt, so all three show the same groups and the same checked marks.
type View struct {
	OrderID     string      `json:"order_id"`
	Available   bool        `json:"available"`
	Groups      []GroupView `json:"groups"`
	Checked     int         `json:"checked"`
	Total       int         `json:"total"`
	GeneratedAt time.Time   `json:"generated_at"`
}

type GroupView struct {
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	Continued   bool        `json:"continued,omitempty"`
	Entries     []EntryView `json:"entries"`
}

type EntryView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Checked     bool   `json:"checked"`
}

// Page is one page of the document export
type Page struct {
	Number int         `json:"number"`
	Of     int         `json:"of"`
	Groups []GroupView `json:"groups"`
}

// NewView stamps groups with the checked marks of state
func NewView(orderID string, groups []Group, state *CompletionState, now time.Time) View {
	v := View{
		OrderID:     orderID,
		Available:   len(groups) > 0,
		Groups:      make([]GroupView, 0, len(groups)),
		GeneratedAt: now,
	}

	for _, g := range groups {
		gv := GroupView{
			ProductID:   g.ProductID,
			ProductName: g.ProductName,
			Quantity:    g.Quantity,
			Entries:     make([]EntryView, 0, len(g.Entries)),
		}
		for _, e := range g.Entries {
			gv.Entries = append(gv.Entries, EntryView{
				ID:          e.ID,
				Description: e.Description,
				Quantity:    e.Quantity,
				Checked:     state.IsChecked(e.ID),
			})
		}
		v.Groups = append(v.Groups, gv)
	}

	v.Checked, v.Total = CompletionRatio(groups, state)
	return v
}

// Paginate splits the view into document pages of at most rowsPerPage rows.
// A group header takes one row and is repeated, marked Continued, when a group
// spills onto the next page. A header is never left alone at the bottom of a page.
func Paginate(v View, rowsPerPage int) []Page {
	if rowsPerPage < 2 {
		rowsPerPage = 2
	}

	var pages []Page
	cur := Page{Number: 1}
	used := 0

	flush := func() {
		pages = append(pages, cur)
		cur = Page{Number: len(pages) + 1}
		used = 0
	}

	for _, g := range v.Groups {
		i := 0
		for i < len(g.Entries) {
			if used+2 > rowsPerPage {
				flush()
			}

			part := GroupView{
				ProductID:   g.ProductID,
				ProductName: g.ProductName,
				Quantity:    g.Quantity,
				Continued:   i > 0,
			}
			used++

			for i < len(g.Entries) && used < rowsPerPage {
				part.Entries = append(part.Entries, g.Entries[i])
				used++
				i++
			}
			cur.Groups = append(cur.Groups, part)
		}
	}

	if len(cur.Groups) > 0 || len(pages) == 0 {
		pages = append(pages, cur)
	}

	for i := range pages {
		pages[i].Of = len(pages)
	}
	return pages
}

// RenderReceipt lays the view out as fixed-width text for a thermal printer
func RenderReceipt(v View, width int) string {
	if width < minReceiptWidth {
		width = minReceiptWidth
	}

	var b strings.Builder
	heavy := strings.Repeat("=", width)
	light := strings.Repeat("-", width)

	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(heavy)
	line(center("CHECKLIST", width))
	for _, l := range wrap("Order: "+v.OrderID, width) {
		line(l)
	}
	line(v.GeneratedAt.Format("02/01/2006 15:04"))
	line(light)

	if !v.Available {
		line(center("no checklist available", width))
		line(heavy)
		return b.String()
	}

	for gi, g := range v.Groups {
		if gi > 0 {
			line("")
		}
		for _, l := range wrap(fmt.Sprintf("%s (x%d)", strings.ToUpper(g.ProductName), g.Quantity), width) {
			line(l)
		}

		for _, e := range g.Entries {
			mark := "[ ] "
			if e.Checked {
				mark = "[x] "
			}
			qty := strconv.Itoa(e.Quantity)
			descWidth := width - len(mark) - len(qty) - 1

			desc := wrap(e.Description, descWidth)
			if len(desc) == 0 {
				desc = []string{""}
			}

			first := mark + desc[0]
			pad := max(1, width-runeLen(first)-len(qty))
			line(first + strings.Repeat(" ", pad) + qty)
			for _, rest := range desc[1:] {
				line(strings.Repeat(" ", len(mark)) + rest)
			}
		}
	}

	line(light)
	line(fmt.Sprintf("Done: %d/%d", v.Checked, v.Total))
	line(heavy)

	return b.String()
}

func center(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

// wrap breaks text into lines of at most width runes on word boundaries,
// splitting words that are longer than a line
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	var cur []rune

	for _, word := range strings.Fields(text) {
		w := []rune(word)

		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}

		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			lines = append(lines, string(cur))
			cur = append([]rune(nil), w...)
		}
	}

	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

func runeLen(s string) int {
	return len([]rune(s))
}
