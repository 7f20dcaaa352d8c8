package statementimport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/facturator/backend/internal/domain/reconciliation"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

var statementHeader = []string{"", "Fecha Operación", "", "Fecha Valor", "", "Concepto", "", "Importe", "", "", "Saldo"}

// movement lays out a data row the way the bank export does, padding included
func movement(opDate, valueDate, concept, amount, balance string) []string {
	return []string{"", opDate, "x", valueDate, "x", concept, "x", amount, "x", "x", balance}
}

func statementHTML(meta string, rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString("<html><head>")
	sb.WriteString(meta)
	sb.WriteString("</head><body><table>")
	for i := 0; i < preambleRows; i++ {
		fmt.Fprintf(&sb, "<tr><td colspan=\"3\">Banco Ejemplo, linea %d</td></tr>", i)
	}
	for _, row := range append([][]string{statementHeader}, rows...) {
		sb.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&sb, "<td>%s</td>", cell)
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table><table><tr><td>ignored</td></tr></table></body></html>")
	return sb.String()
}

func parse(t *testing.T, doc []byte) ([]reconciliation.Transaction, error) {
	t.Helper()
	return NewParser(zap.NewNop()).Parse(context.Background(), doc)
}

func TestParser_Parse(t *testing.T) {
	doc := statementHTML(`<meta charset="utf-8">`,
		movement("17/02/2024", "18/02/2024", "BIZUM DE Pepe CONCEPTO clase", "5.000,00", "100,00"),
		movement("", "", "", "", ""),
		movement("3/2/2024", "3/2/2024", "RECIBO LUZ", "-8.666", ""),
	)

	txs, err := parse(t, []byte(doc))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, 12, txs[0].Row)
	assert.Equal(t, time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC), txs[0].OperationDate)
	assert.Equal(t, time.Date(2024, 2, 18, 0, 0, 0, 0, time.UTC), txs[0].ValueDate)
	assert.Equal(t, "BIZUM DE Pepe CONCEPTO clase", txs[0].Concept)
	assert.True(t, decimal.RequireFromString("50").Equal(txs[0].Amount), txs[0].Amount.String())
	assert.Equal(t, map[string]string{"Saldo": "100,00"}, txs[0].ExtraColumns)

	assert.Equal(t, 14, txs[1].Row)
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), txs[1].OperationDate)
	assert.True(t, decimal.RequireFromString("-86.66").Equal(txs[1].Amount), txs[1].Amount.String())
	assert.Nil(t, txs[1].ExtraColumns)
}

func TestParser_Latin1(t *testing.T) {
	doc := statementHTML("",
		movement("01/03/2024", "01/03/2024", "TRANSFERENCIA DE Ana Muñoz, CONCEPTO marzo", "12.000,00", ""),
	)
	latin1, err := charmap.ISO8859_1.NewEncoder().String(doc)
	require.NoError(t, err)

	txs, err := parse(t, []byte(latin1))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "TRANSFERENCIA DE Ana Muñoz, CONCEPTO marzo", txs[0].Concept)

	name := reconciliation.ExtractName(txs[0].Concept)
	require.NotNil(t, name)
	assert.Equal(t, "Ana Muñoz", *name)
}

func TestParser_DeclaredCharset(t *testing.T) {
	doc := statementHTML(`<meta http-equiv="Content-Type" content="text/html; charset=ISO-8859-1">`,
		movement("01/03/2024", "01/03/2024", "BIZUM DE José CONCEPTO", "1.000,00", ""),
	)
	latin1, err := charmap.ISO8859_1.NewEncoder().String(doc)
	require.NoError(t, err)

	txs, err := parse(t, []byte(latin1))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "BIZUM DE José CONCEPTO", txs[0].Concept)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		message string
	}{
		{
			name: "empty file",
			doc:  "",
		},
		{
			name: "no table",
			doc:  "<html><body><p>Sin movimientos</p></body></html>",
		},
		{
			name: "too few rows",
			doc:  "<table><tr><td>a</td></tr></table>",
		},
		{
			name:    "bad date",
			doc:     statementHTML("", movement("2024-02-17", "17/02/2024", "BIZUM DE Pepe CONCEPTO", "100", "")),
			message: "row 12, column 'Fecha Operación'",
		},
		{
			name:    "bad amount",
			doc:     statementHTML("", movement("17/02/2024", "17/02/2024", "BIZUM DE Pepe CONCEPTO", "cien", "")),
			message: "row 12, column 'Importe'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidStatement), err.Error())
			if tt.message != "" {
				var rowErr RowError
				require.True(t, errors.As(err, &rowErr))
				assert.Contains(t, rowErr.Error(), tt.message)
			}
		})
	}
}

func TestParser_MissingColumn(t *testing.T) {
	doc := strings.Replace(statementHTML("", movement("17/02/2024", "17/02/2024", "x", "1", "")), "Importe", "Cantidad", 1)

	_, err := parse(t, []byte(doc))

	var rowErr RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 11, rowErr.Row)
	assert.Equal(t, ColumnAmount, rowErr.Column)
}

func TestFoldHeader(t *testing.T) {
	assert.Equal(t, "fecha operacion", foldHeader(" Fecha  Operación "))
	assert.Equal(t, foldHeader("Fecha Operaci?n"), foldHeader("Fecha Operaci�n"))
}

func TestParser_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(zap.NewNop()).Parse(ctx, []byte("<table></table>"))
	assert.ErrorIs(t, err, context.Canceled)
}
