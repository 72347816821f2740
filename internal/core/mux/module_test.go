package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-sansio/internal/core/layer"
)

func TestModule(t *testing.T) {
	var (
		m *FanOutMux
		s *layer.Stack
		h layer.Handle
	)

	app := fxtest.New(t,
		layer.Module(),
		Module(),
		fx.Populate(&m, &s),
		fx.Invoke(fx.Annotate(func(mh layer.Handle) { h = mh }, fx.ParamTags(`name:"mux"`))),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, m)
	got, err := s.Get(h)
	require.NoError(t, err)
	assert.Same(t, m, got)
}
