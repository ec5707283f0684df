package sheet

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/pricetag/layout"
)

// Job 是批量排版中的一张价签。
type Job struct {
	Size    layout.LabelDimensions
	Product layout.Product
	Config  layout.LayoutConfig
}

// LayoutAll 并行计算每张价签的布局，结果顺序与 jobs 一致。
// 布局计算本身是纯函数，只在 ctx 取消时返回错误。workers<=0 时使用 GOMAXPROCS。
func LayoutAll(ctx context.Context, jobs []Job, opts layout.BuildOptions, workers int) ([]LabelInput, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]LabelInput, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = LabelInput{
				Size:   job.Size,
				Layout: layout.Compute(job.Size, job.Product, job.Config, opts),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
