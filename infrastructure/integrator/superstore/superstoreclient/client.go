package superstoreclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/domain"
)

type Client interface {
	FetchDataset(ctx context.Context) (io.ReadCloser, error)
	URL() string
}

type SuperstoreClient struct {
	httpClient *http.Client
	url        string
}

// NewClient cria o cliente HTTP que baixa o CSV do dataset
func NewClient(cfg *config.Config) Client {
	return &SuperstoreClient{
		httpClient: &http.Client{
			Timeout: cfg.Dataset.FetchTimeout,
		},
		url: cfg.Dataset.URL,
	}
}

func (c *SuperstoreClient) URL() string {
	return c.url
}

// FetchDataset baixa o CSV. O chamador é responsável por fechar o corpo retornado.
func (c *SuperstoreClient) FetchDataset(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrDatasetUnavailable, "erro ao executar a requisição: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, errors.Wrap(domain.ErrDatasetUnavailable,
			fmt.Sprintf("requisição falhou com status: %s (%s): %s", resp.Status, time.Since(start), body))
	}

	return resp.Body, nil
}
