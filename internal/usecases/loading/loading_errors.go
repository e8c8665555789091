package loading

import (
	"errors"
	"fmt"

	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
)

// Erros específicos para o contexto de carga do dataset
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrNilTable         = errors.New("source returned no table")
)

// DatasetError é um erro com contexto adicional sobre a carga
type DatasetError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Source  string // Fonte que falhou
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *DatasetError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *DatasetError) Unwrap() error {
	return e.Err
}

// NewDatasetError classifica o erro da fonte num código de API
func NewDatasetError(err error, source string) *DatasetError {
	code := apiErrors.ErrInternalServer
	switch {
	case errors.Is(err, domain.ErrMalformedDataset):
		code = apiErrors.ErrMalformedDataset
	case errors.Is(err, domain.ErrDatasetUnavailable):
		code = apiErrors.ErrExternalService
	case errors.Is(err, ErrDatasetNotLoaded):
		code = apiErrors.ErrDatasetNotLoaded
	}

	return &DatasetError{
		Err:     err,
		Code:    code,
		Source:  source,
		Details: "fonte " + source,
	}
}
