package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/lo"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|px|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenTypes = dslLexer.Symbols()
	tokenNames = lo.Invert(tokenTypes)

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for a price-tag template file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'template' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section of a template.
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Label     *LabelSection     `parser:"| @@"`
	Config    *ConfigSection    `parser:"| @@"`
	Smart     *SmartSection     `parser:"| @@"`
	Product   *ProductSection   `parser:"| @@"`
	Overrides *OverridesSection `parser:"| @@"`
	Sheet     *SheetSection     `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Label != nil:
		return "label"
	case s.Config != nil:
		return "config"
	case s.Smart != nil:
		return "smart"
	case s.Product != nil:
		return "product"
	case s.Overrides != nil:
		return "overrides"
	case s.Sheet != nil:
		return "sheet"
	default:
		return "unknown"
	}
}

// MetaSection captures metadata assignments.
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// LabelSection 声明价签物理尺寸，例如 `label 50mm 30mm`。
type LabelSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Params []*Lexeme      `parser:"'label' @@*"`
}

// ConfigSection 对应排版参数（内边距、字号区间、行高等）。
type ConfigSection struct {
	Block *Block `parser:"'config' @@"`
}

// SmartSection 启用按品类/价格调整权重的策略。
type SmartSection struct {
	Block *Block `parser:"'smart' @@"`
}

// ProductSection 是商品数据，字符串中可以引用 ${path} 占位符。
type ProductSection struct {
	Block *Block `parser:"'product' @@"`
}

// OverridesSection 收纳对齐方式与保存坐标之类的逐元素覆盖。
type OverridesSection struct {
	Block *Block `parser:"'overrides' @@"`
}

// SheetSection 描述整张纸，例如 `sheet A4 landscape margin 5mm spacing 2mm`。
type SheetSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Params []*Lexeme      `parser:"'sheet' @@*"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是块内的一条语句：赋值、命令，或单独一行字符串。
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Command    *Command    `parser:"| @@"`
	Bare       *BareString `parser:"| @@"`
}

// Assignment uses colon syntax (key: value). 键可以加引号以包含空格等字符。
type Assignment struct {
	Key   Key    `parser:"( @Ident | @String )"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command 是 `name arg arg { ... }` 形式的指令，例如 `position brand 10 20`。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// BareString 是没有键的字符串语句，在 product 中表示追加一条卖点。
type BareString struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Value StringLiteral  `parser:"@String"`
}

// Value represents generic property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Object *InlineObject  `parser:"| @@"`
	Expr   *Expression    `parser:"| @@"`
}

// ArrayValue captures `[ ... ]` expressions.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// InlineObject captures `{ key: value }` inline maps.
type InlineObject struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ Newline* ( (';' | Newline+) Newline* @@ Newline* )* )? Newline* '}'"`
}

// Expression 是未加引号的值（如 `right`、`a.b`），保留原始 token 交给编译阶段解释。
type Expression struct {
	Parts []*Lexeme
}

// Parse implements participle.Parseable for Expression.
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var nest nesting
	for {
		tok := lex.Peek()
		if nest.endsExpression(tok) {
			break
		}
		lexeme, err := readLexeme(lex)
		if err != nil {
			return err
		}
		nest.track(lexeme.Raw)
		e.Parts = append(e.Parts, lexeme)
	}
	if len(e.Parts) == 0 {
		return participle.NextMatch
	}
	return nil
}

// Lexeme 是一个原样保留的 token，用于命令参数、label/sheet 参数与表达式。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable so Lexeme can act as a grammar atom.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if endsArgs(lex.Peek()) {
		return participle.NextMatch
	}
	lexeme, err := readLexeme(lex)
	if err != nil {
		return err
	}
	*l = *lexeme
	return nil
}

// Key 是赋值语句的键，带引号时自动去掉引号。
type Key string

// Capture implements participle.Capture.
func (k *Key) Capture(values []string) error {
	v, err := captured(values)
	if err != nil {
		return err
	}
	if strings.HasPrefix(v, `"`) {
		if v, err = strconv.Unquote(v); err != nil {
			return err
		}
	}
	*k = Key(v)
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	v, err := captured(values)
	if err != nil {
		return err
	}
	if v, err = strconv.Unquote(v); err != nil {
		return err
	}
	*s = StringLiteral(v)
	return nil
}

func captured(values []string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("捕获结果为空")
	}
	return values[0], nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// nesting 记录表达式内未闭合的括号层数。
type nesting struct {
	parens, brackets int
}

func (n *nesting) track(raw string) {
	switch raw {
	case "(":
		n.parens++
	case ")":
		n.parens = max(n.parens-1, 0)
	case "[":
		n.brackets++
	case "]":
		n.brackets = max(n.brackets-1, 0)
	}
}

// endsExpression 在顶层遇到换行、花括号、分号或逗号时结束表达式；
// 未配对的 ] 属于外层数组。
func (n *nesting) endsExpression(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	if tok.Type == tokenTypes["Symbol"] && tok.Value == "]" {
		return n.brackets == 0
	}
	if n.parens > 0 || n.brackets > 0 {
		return false
	}
	return endsArgs(tok) || (tok.Type == tokenTypes["Symbol"] && tok.Value == ",")
}

// endsArgs 判断 token 是否结束一串命令参数。
func endsArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case tokenTypes["Newline"], tokenTypes["LBrace"], tokenTypes["RBrace"]:
		return true
	case tokenTypes["Symbol"]:
		return tok.Value == ";"
	}
	return false
}

// readLexeme 消费下一个 token；字符串 token 的 Value 为去掉引号后的内容。
func readLexeme(lex *lexer.PeekingLexer) (*Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return nil, participle.NextMatch
	}
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	l := &Lexeme{Type: name, Value: tok.Value, Raw: tok.Value, Pos: tok.Pos}
	if tok.Type == tokenTypes["String"] {
		v, err := strconv.Unquote(tok.Value)
		if err != nil {
			return nil, err
		}
		l.Value = v
	}
	return l, nil
}
