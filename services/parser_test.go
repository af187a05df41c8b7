package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberedListDotFormat(t *testing.T) {
	response := "1. Olá\n2. Carrinho\n3. Finalizar encomenda"

	results, err := parseNumberedList(response, 3)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Olá", "Carrinho", "Finalizar encomenda"}, results)
}

func TestParseNumberedListParenFormatAndBlankLines(t *testing.T) {
	response := "\n1) Primeiro\n\n2) Segundo\n\n"

	results, err := parseNumberedList(response, 2)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Primeiro", "Segundo"}, results)
}

func TestParseNumberedListCountMismatch(t *testing.T) {
	response := "1. Um\n2. Dois"

	results, err := parseNumberedList(response, 3)

	assert.Nil(t, results)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Expected)
	assert.Equal(t, 2, parseErr.Got)
}

func TestParseNumberedListExtraLine(t *testing.T) {
	response := "1. Um\n2. Dois\n3. Três"

	_, err := parseNumberedList(response, 2)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseNumberedListOutOfOrder(t *testing.T) {
	response := "2. Dois\n1. Um"

	_, err := parseNumberedList(response, 2)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "2. Dois", parseErr.Line)
}

func TestParseNumberedListChattyPreamble(t *testing.T) {
	response := "Here are the translations:\n1. Olá"

	_, err := parseNumberedList(response, 1)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseNumberedListEmptyText(t *testing.T) {
	response := "1.\n2. Dois"

	_, err := parseNumberedList(response, 2)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseNumberedListTextKeepsInnerDots(t *testing.T) {
	response := "1. Entrega em 2. dias úteis"

	results, err := parseNumberedList(response, 1)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Entrega em 2. dias úteis"}, results)
}
