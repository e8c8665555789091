package superstore

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/internal/domain"
)

const header = "Row ID,Order ID,Order Date,Ship Date,Ship Mode,Customer ID,Customer Name,Segment,Country,City,State,Postal Code,Region,Product ID,Category,Sub-Category,Product Name,Sales,Quantity,Discount,Profit\n"

const sampleCSV = header +
	`1,CA-2016-152156,11/8/2016,11/11/2016,Second Class,CG-12520,Claire Gute,Consumer,United States,Henderson,Kentucky,42420,South,FUR-BO-10001798,Furniture,Bookcases,Bush Somerset Collection Bookcase,261.96,2,0,41.9136
2,CA-2016-152156,11/8/2016,11/11/2016,Second Class,CG-12520,Claire Gute,Consumer,United States,Henderson,Kentucky,42420,South,FUR-CH-10000454,Furniture,Chairs,"Hon Deluxe Fabric Upholstered Stacking Chairs, Rounded Back",731.94,3,0,219.582
3,CA-2016-138688,6/12/2016,6/16/2016,Second Class,DV-13045,Darrin Van Huff,Corporate,United States,Los Angeles,California,,West,OFF-LA-10000240,Office Supplies,Labels,Self-Adhesive Address Labels for Typewriters by Universal,14.62,2,0,6.8714
4,US-2015-108966,10/11/2015,10/18/2015,Standard Class,SO-20335,Sean O'Donnell,Consumer,United States,Fort Lauderdale,Florida,33311,South,FUR-TA-10000577,Furniture,Tables,Bretford CR4500 Series Slim Rectangular Table,957.5775,5,0.45,-383.031
`

func TestParseSalesCSV(t *testing.T) {
	table, err := ParseSalesCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, 1, table.DroppedRows)

	first := table.Records[0]
	assert.Equal(t, 0, first.RowID)
	assert.Equal(t, "2016-11", first.YearMonth)
	assert.Equal(t, "42420", first.PostalCode)
	assert.Equal(t, "Furniture", first.Category)
	assert.Equal(t, "Bookcases", first.SubCategory)
	assert.Equal(t, "South", first.Region)
	assert.Equal(t, "Consumer", first.Segment)
	assert.Equal(t, 261.96, first.Sales)
	assert.Equal(t, 41.9136, first.Profit)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, 11, first.ShipDate.Day())

	assert.Equal(t, "Hon Deluxe Fabric Upholstered Stacking Chairs, Rounded Back", table.Records[1].ProductName)

	last := table.Records[2]
	assert.Equal(t, 3, last.RowID)
	assert.Equal(t, "2015-10", last.YearMonth)
	assert.Equal(t, -383.031, last.Profit)
}

func TestParseSalesCSV_Invariantes(t *testing.T) {
	table, err := ParseSalesCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	for _, r := range table.Records {
		assert.NotEmpty(t, r.PostalCode)
		assert.Equal(t, r.OrderDate.Format("2006-01"), r.YearMonth)
	}
}

func TestParseSalesCSV_LinhasDescartadas(t *testing.T) {
	table, err := ParseSalesCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Len(t, table.Dropped, table.DroppedRows)
	dropped := table.Dropped[0]
	assert.Equal(t, 2, dropped.RowID)
	assert.Empty(t, dropped.PostalCode)
	assert.Equal(t, 14.62, dropped.Sales)
	assert.Equal(t, "2016-06", dropped.YearMonth)

	raw := table.RawRecords()
	require.Len(t, raw, 4)
	for i, r := range raw {
		assert.Equal(t, i, r.RowID)
	}
}

func TestParseSalesCSV_Erros(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		message string
	}{
		{
			name:    "arquivo vazio",
			csv:     "",
			message: "arquivo vazio",
		},
		{
			name:    "coluna obrigatória ausente",
			csv:     "Order Date,Ship Date,Sales\n1/1/2017,1/2/2017,10\n",
			message: "Postal Code",
		},
		{
			name:    "data inválida",
			csv:     strings.Replace(sampleCSV, "11/8/2016", "amanhã", 1),
			message: "Order Date",
		},
		{
			name:    "data inválida em linha sem CEP também invalida o arquivo",
			csv:     strings.Replace(sampleCSV, "6/16/2016", "??", 1),
			message: "Ship Date",
		},
		{
			name:    "venda não numérica",
			csv:     strings.Replace(sampleCSV, "261.96", "abc", 1),
			message: "Sales",
		},
		{
			name:    "venda inválida em linha sem CEP também invalida o arquivo",
			csv:     strings.Replace(sampleCSV, "14.62", "n/a", 1),
			message: "Sales",
		},
		{
			name:    "quantidade fracionária",
			csv:     strings.Replace(sampleCSV, "957.5775,5,", "957.5775,5.5,", 1),
			message: "quantidade fracionária",
		},
		{
			name:    "número de colunas inconsistente",
			csv:     header + "1,2,3\n",
			message: "linha 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSalesCSV(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedDataset))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseSalesCSV_CabecalhoComBOMEEspacos(t *testing.T) {
	csv := "\ufeffOrder Date, Ship Date ,postal code,Sales,Profit,Quantity,Category,Sub-Category,Region,Segment,Product Name\n" +
		"2017-01-05,2017-01-07,10001,100,10,1,Technology,Phones,East,Consumer,Phone A\n"

	table, err := ParseSalesCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "2017-01", table.Records[0].YearMonth)
}
