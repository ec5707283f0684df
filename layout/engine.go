package layout

// overflowEpsilon 吸收浮点累加误差，避免恰好贴边的布局被误报溢出。
const overflowEpsilon = 1e-6

// Compute 串联目录构建、空间分配、字号搜索与定位，返回一张价签的布局。
// 它是输入的纯函数：相同输入得到完全相同的结果，可以在多个 goroutine 中并行调用。
func Compute(dims LabelDimensions, p Product, cfg LayoutConfig, opts BuildOptions) *LayoutResult {
	elems := BuildCatalog(p)
	if opts.Smart != nil {
		elems = opts.Smart.Apply(p, elems)
	}
	return ComputeElements(dims, elems, cfg, opts)
}

// ComputeElements 对调用方给出的元素列表排版，空文本元素会先被剔除，重复 id 只保留第一个。
// 尺寸非正、内边距吃掉全部空间或元素为空时返回空结果，而不是错误。
func ComputeElements(dims LabelDimensions, elems []ContentElement, cfg LayoutConfig, opts BuildOptions) *LayoutResult {
	cfg = cfg.normalized()
	if !dims.Valid() {
		return &LayoutResult{}
	}
	widthPx, heightPx := dims.PixelSize()
	res := &LayoutResult{
		Elements:       []PlacedElement{},
		CanvasWidthPx:  widthPx,
		CanvasHeightPx: heightPx,
		FontFamily:     cfg.FontFamily,
	}

	elems = dedupeIDs(nonEmpty(elems))
	paddingPx := MMToPx(cfg.PaddingMM)
	spacingPx := MMToPx(cfg.ElementSpacingMM)
	availableWidth := widthPx - 2*paddingPx
	availableHeight := heightPx - 2*paddingPx
	if len(elems) == 0 || availableWidth <= 0 || availableHeight <= 0 {
		return res
	}

	alloc := Allocate(elems, availableHeight, spacingPx)
	fitted := make([]FittedElement, 0, len(elems))
	for _, el := range elems {
		fit := ResolveFontSize(FitRequest{
			Text:     el.Text,
			Width:    availableWidth,
			Height:   alloc[el.ID],
			IsPrice:  el.Kind.IsPrice(),
			Config:   cfg,
			Measurer: opts.Measurer,
		})
		if fit.Exhausted {
			opts.debugf("layout: %s 在字号区间内放不下，退回 %.1fpx（%d 行）", el.ID, fit.FontSize, fit.Wrap.Count())
		}
		fitted = append(fitted, FittedElement{Element: el, Fit: fit, Allocated: alloc[el.ID]})
	}

	res.Elements = Place(fitted, cfg, availableWidth, paddingPx, spacingPx, opts.AlignOverrides)
	if limit := heightPx - paddingPx; res.UsedHeight() > limit+overflowEpsilon {
		res.Overflow = true
		res.OverflowPx = res.UsedHeight() - limit
		opts.debugf("layout: 内容超出价签底部 %.2fpx", res.OverflowPx)
	}
	ApplyPositions(res, opts.Positions)
	return res
}
