package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	parser := NewParser()

	t.Run("one record per data line", func(t *testing.T) {
		text := "name;classification;sector;rating\n" +
			"Acme Ventures;VC;Fintech;4\n" +
			"Beta Angels;Angel;Climate;2\n" +
			"Gamma Family;Family Office;Health;5\n"

		investors, err := parser.Parse("acct", text)
		require.NoError(t, err)
		require.Len(t, investors, 3)

		assert.Equal(t, "Acme Ventures", investors[0].Name)
		assert.Equal(t, "VC", investors[0].Classification)
		assert.Equal(t, "Fintech", investors[0].Sector)
		assert.Equal(t, 4, investors[0].Rating)
		assert.Equal(t, "acct", investors[0].AccountID)
		assert.NotEmpty(t, investors[0].ID)
		assert.NotEqual(t, investors[0].ID, investors[1].ID)
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := parser.Parse("acct", "")
		assert.ErrorIs(t, err, ErrEmptyInput)

		_, err = parser.Parse("acct", "   \n\t\n")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("header-only input rejected", func(t *testing.T) {
		_, err := parser.Parse("acct", "name;classification\n")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("unparseable rating defaults to zero", func(t *testing.T) {
		investors, err := parser.Parse("acct", "name;rating\nAcme;high\nBeta;3")
		require.NoError(t, err)
		require.Len(t, investors, 2)
		assert.Equal(t, 0, investors[0].Rating, "bad rating never rejects the row")
		assert.Equal(t, 3, investors[1].Rating)
	})

	t.Run("short rows default missing columns to empty", func(t *testing.T) {
		investors, err := parser.Parse("acct", "name;email;phone\nAcme;a@acme.vc\nBeta")
		require.NoError(t, err)
		require.Len(t, investors, 2)
		assert.Equal(t, "a@acme.vc", investors[0].Email)
		assert.Empty(t, investors[0].Phone)
		assert.Equal(t, "Beta", investors[1].Name)
		assert.Empty(t, investors[1].Email)
	})

	t.Run("headers are case-insensitive and trimmed", func(t *testing.T) {
		investors, err := parser.Parse("acct", " Name ; CLASSIFICATION \nAcme;VC")
		require.NoError(t, err)
		require.Len(t, investors, 1)
		assert.Equal(t, "Acme", investors[0].Name)
		assert.Equal(t, "VC", investors[0].Classification)
	})

	t.Run("unrecognized headers are ignored", func(t *testing.T) {
		investors, err := parser.Parse("acct", "name;twitter;rating\nAcme;@acme;5")
		require.NoError(t, err)
		require.Len(t, investors, 1)
		assert.Equal(t, "Acme", investors[0].Name)
		assert.Equal(t, 5, investors[0].Rating)
	})

	t.Run("credit/equity header alias", func(t *testing.T) {
		investors, err := parser.Parse("acct", "name;credit/equity\nAcme;Equity")
		require.NoError(t, err)
		assert.Equal(t, "Equity", investors[0].CreditEquity)

		investors, err = parser.Parse("acct", "name;credit_equity\nAcme;Credit")
		require.NoError(t, err)
		assert.Equal(t, "Credit", investors[0].CreditEquity)
	})

	t.Run("blank lines and CRLF tolerated", func(t *testing.T) {
		investors, err := parser.Parse("acct", "name;sector\r\n\r\nAcme;Fintech\r\n\r\nBeta;Climate\r\n")
		require.NoError(t, err)
		require.Len(t, investors, 2)
		assert.Equal(t, "Fintech", investors[0].Sector)
	})

	t.Run("link and profile both map to profile url", func(t *testing.T) {
		investors, err := parser.Parse("acct", "name;link\nAcme;https://acme.vc")
		require.NoError(t, err)
		assert.Equal(t, "https://acme.vc", investors[0].ProfileURL)
	})
}
