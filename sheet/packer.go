package sheet

const epsilon = 1e-9

// Pack 按输入顺序贪心地把价签排到纸张上，放不下的价签被丢弃并记录下标，而不是报错。
// 只有一张价签时居中放置。每次调用都从头排布，不保留上一次的结果。
func Pack(labels []LabelInput, canvas PageCanvas) PackResult {
	res := PackResult{Canvas: canvas, Placed: []PlacedLabelInstance{}, Dropped: []int{}}
	if len(labels) == 1 {
		packSingle(&res, labels[0])
		return res
	}

	f := newFlow(canvas)
	for i, l := range labels {
		pos, ok := f.place(l.Size.WidthMM, l.Size.HeightMM)
		if !ok {
			res.Dropped = append(res.Dropped, i)
			continue
		}
		res.Placed = append(res.Placed, PlacedLabelInstance{
			Index:       i,
			LabelLayout: l.Layout,
			LabelSizeMM: l.Size,
			PositionMM:  pos,
		})
	}
	return res
}

func packSingle(res *PackResult, l LabelInput) {
	c := res.Canvas
	usableW, usableH := c.UsableSize()
	w, h := l.Size.WidthMM, l.Size.HeightMM
	if !l.Size.Valid() || w > usableW+epsilon || h > usableH+epsilon {
		res.Dropped = append(res.Dropped, 0)
		return
	}
	res.Placed = append(res.Placed, PlacedLabelInstance{
		Index:       0,
		LabelLayout: l.Layout,
		LabelSizeMM: l.Size,
		PositionMM: Point{
			X: c.Margins.Left + (usableW-w)/2,
			Y: c.Margins.Top + (usableH-h)/2,
		},
	})
}

// flow 把行排布与列排布统一成主轴/副轴：行排布的主轴是 x，列排布的主轴是 y。
type flow struct {
	vertical bool
	spacing  float64
	// 主轴起点与终点、副轴起点与终点
	mainStart, mainEnd   float64
	crossStart, crossEnd float64

	cursorMain, cursorCross float64
	lineExtent              float64
}

func newFlow(c PageCanvas) *flow {
	f := &flow{vertical: c.Orientation == Vertical, spacing: c.SpacingMM}
	if f.vertical {
		f.mainStart, f.mainEnd = c.Margins.Top, c.HeightMM-c.Margins.Bottom
		f.crossStart, f.crossEnd = c.Margins.Left, c.WidthMM-c.Margins.Right
	} else {
		f.mainStart, f.mainEnd = c.Margins.Left, c.WidthMM-c.Margins.Right
		f.crossStart, f.crossEnd = c.Margins.Top, c.HeightMM-c.Margins.Bottom
	}
	f.cursorMain, f.cursorCross = f.mainStart, f.crossStart
	return f
}

func (f *flow) place(w, h float64) (Point, bool) {
	if w <= 0 || h <= 0 {
		return Point{}, false
	}
	mainSize, crossSize := w, h
	if f.vertical {
		mainSize, crossSize = h, w
	}
	// 比整行（列）还长的价签在任何位置都放不下
	if f.mainStart+mainSize > f.mainEnd+epsilon {
		return Point{}, false
	}
	if f.cursorMain+mainSize > f.mainEnd+epsilon {
		f.cursorMain = f.mainStart
		f.cursorCross += f.lineExtent + f.spacing
		f.lineExtent = 0
	}
	if f.cursorCross+crossSize > f.crossEnd+epsilon {
		return Point{}, false
	}
	pos := Point{X: f.cursorMain, Y: f.cursorCross}
	if f.vertical {
		pos = Point{X: f.cursorCross, Y: f.cursorMain}
	}
	if crossSize > f.lineExtent {
		f.lineExtent = crossSize
	}
	f.cursorMain += mainSize + f.spacing
	return pos, true
}
