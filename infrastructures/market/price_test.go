package market

import "testing"

func TestNormalizePrice_Units(t *testing.T) {
	p := NewPriceParser()
	cases := []struct {
		token string
		want  float64
	}{
		{"15W", 15},
		{"15w", 15},
		{"15万", 15},
		{"15m", 15},
		{"1.2亿", 12000},
		{"3千万", 3000},
		{"8千", 0.8},
		{"5k", 0.5},
		{"150000", 15},   // 超过原值线的裸数字折回万
		{"8000", 8000},   // 未超线的保持原样
		{"36.5万", 36.5},
	}
	for _, c := range cases {
		if got := p.NormalizePrice(c.token); got != c.want {
			t.Fatalf("NormalizePrice(%q) = %v, want %v", c.token, got, c.want)
		}
	}
}

func TestNormalizePrice_Invalid(t *testing.T) {
	p := NewPriceParser()
	for _, token := range []string{"", "abc", "万", "w15"} {
		if got := p.NormalizePrice(token); got != 0 {
			t.Fatalf("NormalizePrice(%q) = %v, want 0", token, got)
		}
	}
}

func TestNormalizePrice_CustomCutoff(t *testing.T) {
	p := &PriceParser{RawCoinCutoff: 5000}
	if got := p.NormalizePrice("8000"); got != 0.8 {
		t.Fatalf("cutoff not applied: %v", got)
	}
}

func TestFindTokens_Spans(t *testing.T) {
	p := NewPriceParser()
	tokens := p.FindTokens("收黑宝石15W再收彩果3万")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].Value != 15 || !tokens[0].HasUnit {
		t.Fatalf("unexpected first token: %+v", tokens[0])
	}
	if tokens[0].Start != 4 || tokens[0].End != 7 {
		t.Fatalf("unexpected first span: %+v", tokens[0])
	}
	if tokens[1].Value != 3 {
		t.Fatalf("unexpected second token: %+v", tokens[1])
	}
}

func TestFindTokens_SkipsLetterPrefixed(t *testing.T) {
	// D3这种编号里的数字不算价格
	p := NewPriceParser()
	tokens := p.FindTokens("D3带队30W一轮")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].Value != 30 {
		t.Fatalf("unexpected token: %+v", tokens[0])
	}
}

func TestFindTokens_NoUnit(t *testing.T) {
	p := NewPriceParser()
	tokens := p.FindTokens("武器35收")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if tokens[0].HasUnit {
		t.Fatalf("token must be unitless: %+v", tokens[0])
	}
	if tokens[0].Value != 35 {
		t.Fatalf("unexpected value: %v", tokens[0].Value)
	}
}
