package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"

	"github.com/ByLCY/pricetag/binding"
	"github.com/ByLCY/pricetag/fonts"
	"github.com/ByLCY/pricetag/layout"
	"github.com/ByLCY/pricetag/measure"
	canvasrenderer "github.com/ByLCY/pricetag/renderer/canvas"
	"github.com/ByLCY/pricetag/report"
	"github.com/ByLCY/pricetag/sheet"
	"github.com/ByLCY/pricetag/template"
)

type commonOptions struct {
	templatePath string
	dataPath     string
	outputPath   string
	measurer     string
	quiet        bool
}

func (o *commonOptions) bind(cmd *cobra.Command, defaultOut string) {
	cmd.Flags().StringVarP(&o.templatePath, "template", "t", "", "价签模板文件")
	cmd.Flags().StringVarP(&o.dataPath, "data", "d", "", "商品数据文件（YAML 或 JSON）")
	cmd.Flags().StringVarP(&o.outputPath, "output", "o", defaultOut, "PDF 输出路径，为空时不渲染")
	cmd.Flags().StringVar(&o.measurer, "measure", "canvas", "测宽后端：canvas、shaper、opentype、estimate")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "不输出终端摘要")
	_ = cmd.MarkFlagRequired("template")
}

func newLayoutCommand() *cobra.Command {
	var (
		opts      commonOptions
		record    int
		debugPath string
		border    bool
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "为一条商品数据生成单张价签",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, opts, record, debugPath, border)
		},
	}
	opts.bind(cmd, "output/label.pdf")
	cmd.Flags().IntVar(&record, "record", 1, "使用数据文件中的第几条记录（从 1 开始）")
	cmd.Flags().StringVar(&debugPath, "debug", "", "布局调试 JSON 输出路径")
	cmd.Flags().BoolVar(&border, "border", true, "绘制价签外框")
	return cmd
}

func newSheetCommand() *cobra.Command {
	var (
		opts      commonOptions
		preset    string
		landscape bool
		vertical  bool
		workers   int
	)
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "把全部商品数据排到整张纸上",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheet(cmd, opts, sheetFlags{preset: preset, landscape: landscape, vertical: vertical, workers: workers})
		},
	}
	opts.bind(cmd, "output/sheet.pdf")
	cmd.Flags().StringVar(&preset, "preset", "", "纸张预设（"+strings.Join(sheet.PresetNames(), "/")+"），覆盖模板中的 sheet 设置")
	cmd.Flags().BoolVar(&landscape, "landscape", false, "横向纸张（配合 --preset）")
	cmd.Flags().BoolVar(&vertical, "vertical", false, "按列排布")
	cmd.Flags().IntVar(&workers, "workers", 0, "并行排版的 worker 数，0 表示 CPU 数")
	return cmd
}

type sheetFlags struct {
	preset    string
	landscape bool
	vertical  bool
	workers   int
}

func runLayout(cmd *cobra.Command, opts commonOptions, record int, debugPath string, border bool) error {
	tpl, err := template.Load(opts.templatePath)
	if err != nil {
		return err
	}
	warnLegacy(tpl)
	records, err := loadRecords(opts.dataPath)
	if err != nil {
		return err
	}
	var rec any
	if len(records) > 0 {
		if record < 1 || record > len(records) {
			return fmt.Errorf("记录序号 %d 超出范围（共 %d 条）", record, len(records))
		}
		rec = records[record-1]
	}
	product, err := tpl.Bind(rec)
	if err != nil {
		return err
	}

	r := newRenderer(tpl, opts.templatePath, border)
	m, err := newMeasurer(opts.measurer, tpl, opts.templatePath, r)
	if err != nil {
		return err
	}
	buildOpts := tpl.BuildOptions(m)
	buildOpts.Logger = logger.GetLogger("layout")
	result := layout.Compute(tpl.Dimensions, product, tpl.Config, buildOpts)
	if result.Overflow {
		logger.Warnf("价签内容溢出 %.1fpx", result.OverflowPx)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}
	if !opts.quiet {
		fmt.Fprintln(cmd.OutOrStdout(), report.Layout(result, report.DefaultTheme()))
	}
	if opts.outputPath == "" {
		return nil
	}
	pdfBytes, err := r.RenderLabel(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	return writeOutput(opts.outputPath, pdfBytes)
}

func runSheet(cmd *cobra.Command, opts commonOptions, flags sheetFlags) error {
	tpl, err := template.Load(opts.templatePath)
	if err != nil {
		return err
	}
	warnLegacy(tpl)
	records, err := loadRecords(opts.dataPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("没有商品数据，请用 --data 指定数据文件")
	}

	canvas := tpl.Canvas()
	if flags.preset != "" {
		if canvas, err = sheet.Preset(flags.preset, flags.landscape); err != nil {
			return err
		}
	}
	if flags.vertical {
		canvas.Orientation = sheet.Vertical
	}

	jobs := make([]sheet.Job, 0, len(records))
	for i, rec := range records {
		job, err := tpl.Job(rec)
		if err != nil {
			return fmt.Errorf("第 %d 条记录: %w", i+1, err)
		}
		jobs = append(jobs, job)
	}

	r := newRenderer(tpl, opts.templatePath, false)
	m, err := newMeasurer(opts.measurer, tpl, opts.templatePath, r)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	labels, err := sheet.LayoutAll(ctx, jobs, tpl.BuildOptions(m), flags.workers)
	if err != nil {
		return err
	}
	packed := sheet.Pack(labels, canvas)
	logger.Debugf("已放置 %d 张，丢弃 %d 张", len(packed.Placed), len(packed.Dropped))
	if len(packed.Dropped) > 0 {
		logger.Warnf("%d 张价签放不下被丢弃", len(packed.Dropped))
	}

	if !opts.quiet {
		fmt.Fprintln(cmd.OutOrStdout(), report.Sheet(&packed, len(labels), report.DefaultTheme()))
	}
	if opts.outputPath == "" {
		return nil
	}
	pdfBytes, err := r.RenderSheet(&packed)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	return writeOutput(opts.outputPath, pdfBytes)
}

func loadRecords(path string) ([]any, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开数据文件 %s: %w", path, err)
	}
	defer f.Close()
	data, err := binding.Decode(f)
	if err != nil {
		return nil, err
	}
	return binding.Records(data)
}

func newRenderer(tpl *template.Template, templatePath string, border bool) *canvasrenderer.Renderer {
	opts := canvasrenderer.Options{
		BaseDir:   filepath.Dir(templatePath),
		Border:    border,
		Title:     tpl.Title,
		TextColor: tpl.TextColor,
	}
	if tpl.FontSource != "" {
		opts.Fonts = map[string]canvasrenderer.Resource{
			tpl.Config.FontFamily: {Path: tpl.FontSource},
		}
	}
	return canvasrenderer.NewRendererWithOptions(opts)
}

// newMeasurer 按名称选择测宽后端；canvas 与渲染器共用字体度量。
func newMeasurer(name string, tpl *template.Template, templatePath string, r *canvasrenderer.Renderer) (layout.TextMeasurer, error) {
	name = strings.ToLower(name)
	switch name {
	case "", "canvas":
		return r, nil
	case "estimate":
		return nil, nil
	case "shaper", "opentype":
		data, err := fonts.Load(fontPath(tpl.FontSource, templatePath))
		if err != nil {
			return nil, err
		}
		if name == "shaper" {
			s, err := measure.NewShaper(data)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
		o, err := measure.NewOpentype(data)
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("未知的测宽后端：%s", name)
	}
}

// fontPath 把相对字体路径解析到模板所在目录。
func fontPath(src, templatePath string) string {
	if src == "" || fonts.IsBuiltin(src) || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(filepath.Dir(templatePath), src)
}

func warnLegacy(tpl *template.Template) {
	for _, id := range tpl.LegacyPositions {
		logger.Warnf("元素 %s 的坐标按旧版像素值解析，建议改写为百分比", id)
	}
}

func writeDebug(result *layout.LayoutResult, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	logger.Infof("已生成 PDF：%s", path)
	return nil
}
