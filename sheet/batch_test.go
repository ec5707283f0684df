package sheet

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/pricetag/layout"
)

func TestLayoutAllKeepsOrder(t *testing.T) {
	var jobs []Job
	for i := 0; i < 20; i++ {
		jobs = append(jobs, Job{
			Size:    layout.LabelDimensions{WidthMM: 50, HeightMM: 30},
			Product: layout.Product{Name: fmt.Sprintf("商品 %d", i), Price: "¥9.90"},
			Config:  layout.DefaultConfig(),
		})
	}
	out, err := LayoutAll(context.Background(), jobs, layout.BuildOptions{}, 4)
	require.NoError(t, err)
	require.Len(t, out, len(jobs))
	for i, in := range out {
		serial := layout.Compute(jobs[i].Size, jobs[i].Product, jobs[i].Config, layout.BuildOptions{})
		assert.Equal(t, serial, in.Layout)
		assert.Equal(t, jobs[i].Size, in.Size)
	}

	res := Pack(out, a4(t))
	assert.Len(t, res.Placed, 20)
}

func TestLayoutAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LayoutAll(ctx, []Job{{Size: layout.LabelDimensions{WidthMM: 50, HeightMM: 30}}}, layout.BuildOptions{}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
