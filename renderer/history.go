package renderer

import (
	"bytes"

	"github.com/Lucas-Abner/tradebook"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders a transaction list as a markdown table, one row per
// transaction in the order given.
func HistoryMarkdown(txs []tradebook.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transaction History")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Time", "Type", "Symbol", "Quantity", "Price", "Cash"},
		Rows:   [][]string{},
	}
	for _, tx := range txs {
		row := []string{
			tx.When().Format("2006-01-02 15:04:05"),
			string(tx.What()),
			"",
			"",
			"",
			tx.CashImpact().SignedString(),
		}
		switch v := tx.(type) {
		case tradebook.Buy:
			row[2] = v.Symbol
			row[3] = v.SignedQuantity().SignedString()
			row[4] = v.Price.String()
		case tradebook.Sell:
			row[2] = v.Symbol
			row[3] = v.SignedQuantity().SignedString()
			row[4] = v.Price.String()
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)

	return doc.String()
}
