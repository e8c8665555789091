package loading

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/internal/metrics"
	"github.com/vfg2006/sales-dashboard/internal/usecases/loading/mocks"
	"github.com/vfg2006/sales-dashboard/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func newTable(months ...string) *domain.SalesTable {
	table := &domain.SalesTable{
		Source:      "test",
		LoadedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		DroppedRows: 2,
	}
	for i, m := range months {
		date, _ := time.Parse(domain.YearMonthLayout, m)
		table.Records = append(table.Records, domain.SalesRecord{
			RowID:     i,
			OrderDate: date,
			YearMonth: m,
			Sales:     10,
		})
	}
	return table
}

func TestLoaderService_GetMemoiza(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Name().Return("http:test").AnyTimes()
	source.EXPECT().Load(gomock.Any()).Return(newTable("2017-01", "2017-02"), nil).Times(1)

	loader := NewLoaderService(source, nil, time.Second)

	first, err := loader.Get(context.Background())
	require.NoError(t, err)
	second, err := loader.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 2, first.Len())
}

func TestLoaderService_GetConcorrenteCarregaUmaVez(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Name().Return("http:test").AnyTimes()

	release := make(chan struct{})
	source.EXPECT().Load(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.SalesTable, error) {
		<-release
		return newTable("2017-01"), nil
	}).Times(1)

	loader := NewLoaderService(source, nil, time.Second)

	var wg sync.WaitGroup
	results := make([]*domain.SalesTable, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := loader.Get(context.Background())
			assert.NoError(t, err)
			results[i] = table
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestLoaderService_FalhaNaoFicaEmCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Name().Return("http:test").AnyTimes()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	gomock.InOrder(
		source.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrDatasetUnavailable),
		source.EXPECT().Load(gomock.Any()).Return(newTable("2017-01"), nil),
	)

	loader := NewLoaderService(source, m, time.Second)

	_, err := loader.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDatasetUnavailable)

	var dsErr *DatasetError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, apiErrors.ErrExternalService, dsErr.Code)
	assert.False(t, loader.Status().Loaded)

	table, err := loader.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatasetLoads.WithLabelValues("failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatasetLoads.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatasetRows))
}

func TestLoaderService_RefreshMantemTabelaAnteriorEmFalha(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Name().Return("http:test").AnyTimes()

	gomock.InOrder(
		source.EXPECT().Load(gomock.Any()).Return(newTable("2017-01"), nil),
		source.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrMalformedDataset),
		source.EXPECT().Load(gomock.Any()).Return(newTable("2017-01", "2017-02", "2017-03"), nil),
	)

	loader := NewLoaderService(source, nil, time.Second)

	original, err := loader.Get(context.Background())
	require.NoError(t, err)

	_, err = loader.Refresh(context.Background())
	var dsErr *DatasetError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, apiErrors.ErrMalformedDataset, dsErr.Code)

	current, err := loader.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, original, current)

	refreshed, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, refreshed.Len())

	status := loader.Status()
	assert.True(t, status.Loaded)
	assert.Equal(t, 3, status.Rows)
	assert.Equal(t, 3, status.Months)
	assert.Equal(t, 2, status.DroppedRows)
	assert.Equal(t, 2, status.Loads)
	assert.Equal(t, "http:test", status.Source)
	require.NotNil(t, status.LoadedAt)
}

func TestLoaderService_FonteSemTabela(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Name().Return("http:test").AnyTimes()
	source.EXPECT().Load(gomock.Any()).Return(nil, nil)

	_, err := NewLoaderService(source, nil, time.Second).Get(context.Background())
	assert.ErrorIs(t, err, ErrNilTable)
}

func TestLoaderService_CancelamentoNaoAfetaCargaCompartilhada(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Name().Return("http:test").AnyTimes()

	started := make(chan struct{})
	release := make(chan struct{})
	source.EXPECT().Load(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.SalesTable, error) {
		close(started)
		<-release
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		assert.NoError(t, ctx.Err())
		return newTable("2017-01"), nil
	}).Times(1)

	loader := NewLoaderService(source, nil, time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := loader.Get(firstCtx)
		firstErr <- err
	}()
	<-started

	secondResult := make(chan *domain.SalesTable, 1)
	go func() {
		table, err := loader.Get(context.Background())
		assert.NoError(t, err)
		secondResult <- table
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	table := <-secondResult
	require.NotNil(t, table)
	assert.Equal(t, 1, table.Len())
	assert.True(t, loader.Status().Loaded)
}
