package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/pricetag/dsl"
)

const sampleDSL = `
template Shelf v1 {
  meta {
    title: "货架价签"
  }

  label 50mm 30mm

  config {
    padding: 2mm
    spacing: 1mm
    min-font: 8; max-font: 24
    line-height: 1.2x
    color: #1E1E1E
  }

  smart { category: "food" }

  product {
    name: "${item.name}"
    price: "¥99.00"
    selling-points: [
      "零添加"
      "高钙"
    ]
    specs { 颜色: "红"; "Net Weight": "250ml" }
  }

  overrides {
    align brand right
    position product_price 50 75
  }

  sheet A4 landscape margin 5mm spacing 2mm
}
`

func TestParseTemplate(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Shelf" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}

	kinds := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "meta,label,config,smart,product,overrides,sheet" {
		t.Fatalf("unexpected sections: %s", got)
	}

	label := doc.Sections[1].Label
	if len(label.Params) != 2 || label.Params[0].Value != "50mm" || label.Params[1].Value != "30mm" {
		t.Fatalf("unexpected label params: %+v", label.Params)
	}

	config := doc.Sections[2].Config.Block.Statements
	if len(config) != 6 {
		t.Fatalf("expected 6 config assignments, got %d", len(config))
	}
	if a := config[3].Assignment; a == nil || a.Key != "max-font" || *a.Value.Number != "24" {
		t.Fatalf("unexpected max-font assignment: %+v", config[3])
	}
	if a := config[4].Assignment; a == nil || *a.Value.Number != "1.2x" {
		t.Fatalf("unexpected line-height assignment: %+v", config[4])
	}
	if a := config[5].Assignment; a == nil || a.Value.Color == nil || *a.Value.Color != "#1E1E1E" {
		t.Fatalf("unexpected color assignment: %+v", config[5])
	}

	product := doc.Sections[4].Product.Block.Statements
	if got := string(*product[0].Assignment.Value.String); got != "${item.name}" {
		t.Fatalf("expected placeholder in name, got %s", got)
	}
	points := product[2].Assignment
	if points == nil || points.Value.Array == nil || len(points.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 selling points, got %+v", product[2])
	}
	specs := product[3].Command
	if specs == nil || specs.Name != "specs" || specs.Block == nil || len(specs.Block.Statements) != 2 {
		t.Fatalf("expected specs block, got %+v", product[3])
	}
	if key := specs.Block.Statements[0].Assignment.Key; key != "颜色" {
		t.Fatalf("expected unicode key, got %s", key)
	}
	if key := specs.Block.Statements[1].Assignment.Key; key != "Net Weight" {
		t.Fatalf("expected quoted key to be unquoted, got %s", key)
	}

	overrides := doc.Sections[5].Overrides.Block.Statements
	pos := overrides[1].Command
	if pos == nil || pos.Name != "position" || tokensToString(pos.Args) != "product_price 50 75" {
		t.Fatalf("unexpected position command: %+v", overrides[1])
	}

	sheet := doc.Sections[6].Sheet
	if got := tokensToString(sheet.Params); got != "A4 landscape margin 5mm spacing 2mm" {
		t.Fatalf("unexpected sheet params: %s", got)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString(`template T v1 { page A4 { } }`); err == nil {
		t.Fatalf("expected error for unknown section")
	}
	if _, err := dsl.Parse(strings.NewReader(`template T v1 { label 40mm 30mm }`)); err != nil {
		t.Fatalf("minimal template should parse: %v", err)
	}
}

func TestParseBareStringAndExpressions(t *testing.T) {
	doc, err := dsl.ParseString(`template T v1 {
  product {
    "买一送一"
    name: fancy(a, b).c
    tags: [x, (y, z)]
  }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	stmts := doc.Sections[0].Product.Block.Statements
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if stmts[0].Bare == nil || string(stmts[0].Bare.Value) != "买一送一" {
		t.Fatalf("expected bare string statement, got %+v", stmts[0])
	}
	if expr := stmts[1].Assignment.Value.Expr; expr == nil || tokensToString(expr.Parts) != "fancy ( a , b ) . c" {
		t.Fatalf("expression should keep commas inside parentheses: %+v", stmts[1].Assignment.Value)
	}
	arr := stmts[2].Assignment.Value.Array
	if arr == nil || len(arr.Values) != 2 || tokensToString(arr.Values[1].Expr.Parts) != "( y , z )" {
		t.Fatalf("unexpected array: %+v", stmts[2].Assignment.Value)
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
