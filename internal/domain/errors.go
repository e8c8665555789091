package domain

import "errors"

// Erros de carga do dataset, compartilhados entre as fontes (HTTP e Postgres)
var (
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	ErrMalformedDataset   = errors.New("malformed dataset")
)
