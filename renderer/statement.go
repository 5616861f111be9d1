package renderer

import (
	"bytes"
	"fmt"

	"github.com/Lucas-Abner/tradebook"
	md "github.com/nao1215/markdown"
)

// StatementMarkdown renders an account statement as a markdown document.
func StatementMarkdown(s *tradebook.Statement) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Statement as of %s", s.Time.Format("2006-01-02 15:04:05 MST")))

	if len(s.Holdings) > 0 {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Symbol", "Quantity", "Price", "Value"},
			Rows:   [][]string{},
		}
		for _, line := range s.Holdings {
			table.Rows = append(table.Rows, []string{
				line.Symbol,
				line.Quantity.String(),
				line.Price.String(),
				line.Value.String(),
			})
		}
		doc.Table(table)
	}

	summary := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"", "Amount"},
		Rows: [][]string{
			{"Cash", s.Cash.String()},
			{"Portfolio Value", s.PortfolioValue.String()},
			{"Profit / Loss", s.ProfitLoss.SignedString()},
		},
	}
	doc.Table(summary)

	return doc.String()
}
