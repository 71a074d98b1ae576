package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/importer"
)

func TestDetectDialect(t *testing.T) {
	type testCase struct {
		name string
		text string
		want importer.Dialect
	}

	tests := []testCase{
		{
			name: "BankExportHeader",
			text: "Data valor;Débito;Categoria;Descrição\n15-03-2024;25,50;Food;Lunch",
			want: importer.DialectSpecial,
		},
		{
			name: "RegularHeader",
			text: "amount,category,description,date\n10,Food,Lunch,2024-03-01",
			want: importer.DialectRegular,
		},
		{
			name: "LowercaseMarkerIsNotEnough",
			text: "débito;categoria\n1;x",
			want: importer.DialectRegular,
		},
		{
			// Known limitation: free text containing the marker wins.
			name: "MarkerInRegularDescription",
			text: "amount,category,description,date\n10,Others,Débito direto,2024-03-01",
			want: importer.DialectSpecial,
		},
		{
			name: "Empty",
			text: "",
			want: importer.DialectRegular,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, importer.DetectDialect(tt.text))
		})
	}
}

func TestDialect_Profile(t *testing.T) {
	regular := importer.DialectRegular.Profile()
	assert.Equal(t, ',', regular.Delimiter)
	assert.Equal(t, "amount", regular.AmountCol)
	assert.Equal(t, "regular", importer.DialectRegular.String())

	special := importer.DialectSpecial.Profile()
	assert.Equal(t, ';', special.Delimiter)
	assert.Equal(t, "débito", special.AmountCol)
	assert.Equal(t, "categoria", special.CategoryCol)
	assert.Equal(t, "descrição", special.DescCol)
	assert.Equal(t, "data valor", special.DateCol)
}

func TestReshape(t *testing.T) {
	type args struct {
		text    string
		dialect importer.Dialect
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{
			name: "RegularUnchanged",
			args: args{
				text:    "Amount,Date\r\n10,2024-03-01\r\n\r\nfooter",
				dialect: importer.DialectRegular,
			},
			want: "Amount,Date\r\n10,2024-03-01\r\n\r\nfooter",
		},
		{
			name: "SpecialDropsFooterAndBlankLines",
			args: args{
				text:    " Data valor ; Débito ;Categoria;Descrição\r\n\r\n15-03-2024;25,50;Food;Lunch\n   \n16-03-2024;3,00;Transport;Bus\nSaldo final;100,00",
				dialect: importer.DialectSpecial,
			},
			want: "data valor;débito;categoria;descrição\n15-03-2024;25,50;Food;Lunch\n16-03-2024;3,00;Transport;Bus",
		},
		{
			name: "SpecialDataLinesKeepTheirSpacing",
			args: args{
				text:    "Débito;Descrição\n 1,00 ; Coffee \nend",
				dialect: importer.DialectSpecial,
			},
			want: "débito;descrição\n 1,00 ; Coffee ",
		},
		{
			name: "SpecialHeaderOnlyIsDroppedAsFooter",
			args: args{
				text:    "Débito;Descrição",
				dialect: importer.DialectSpecial,
			},
			want: "",
		},
		{
			name: "SpecialEmpty",
			args: args{
				text:    "\n\n",
				dialect: importer.DialectSpecial,
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, importer.Reshape(tt.args.text, tt.args.dialect))
		})
	}
}
