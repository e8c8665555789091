package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func captureLogger(t *testing.T) (*bytes.Buffer, Logger) {
	t.Helper()
	buf := &bytes.Buffer{}
	base := logrus.New()
	base.SetOutput(buf)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return buf, &logger{entry: logrus.NewEntry(base)}
}

func TestCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestWithFields_DevelopmentFiltraCampos(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	buf, l := captureLogger(t)

	l.WithFields(Fields{"month": "2017-01", "user_agent": "curl"}).Info("render")

	out := buf.String()
	assert.Contains(t, out, "month=2017-01")
	assert.NotContains(t, out, "user_agent")
}

func TestWithFields_ProducaoMantemTudo(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	buf, l := captureLogger(t)

	ctx, id := WithCorrelationID(context.Background())
	l.WithContext(ctx).WithField("user_agent", "curl").Info("render")

	out := buf.String()
	assert.Contains(t, out, "user_agent=curl")
	assert.Contains(t, out, id)
}
