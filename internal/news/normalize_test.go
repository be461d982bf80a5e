package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold tags", "<b>알뜰폰</b> 가입자 증가", "알뜰폰 가입자 증가"},
		{"entities", "&quot;5G&quot; 요금 &lt;인상&gt; &amp; 반발", `"5G" 요금 <인상> & 반발`},
		{"amp before lt", "&amp;lt;", "<"},
		{"trim", "  제목  ", "제목"},
		{"inner spaces kept", "a   b", "a   b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.in))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "SKT <b>MVNO</b> News", "skt mvno news"},
		{"collapse whitespace", "  KT\t\t알뜰폰\n  요금제 ", "kt 알뜰폰 요금제"},
		{"unicode space", "KT　알뜰폰", "kt 알뜰폰"},
		{"only whitespace", " \t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.in))
		})
	}
}

func TestNormalizeTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"이통3사 <b>5G</b> 요금 인상",
		"  &quot;MVNO&quot;   Market   GROWS ",
		"LG U+ &amp; KT 합작",
		"",
		"\t\n",
	}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		assert.Equal(t, once, NormalizeTitle(once), "input %q", in)
	}
}

func TestStripBold(t *testing.T) {
	assert.Equal(t, "&quot;x&quot;  y", StripBold("<b>&quot;x&quot;</b>  y"))
}

func TestMatchesKeyword(t *testing.T) {
	a := Article{Title: "<b>MVNO</b> 시장 확대", Description: "알뜰폰 &amp; 5G"}

	assert.True(t, MatchesKeyword(a, "mvno"))
	assert.True(t, MatchesKeyword(a, "5g"))
	assert.True(t, MatchesKeyword(a, "알뜰폰 & 5G"))
	assert.False(t, MatchesKeyword(a, "LTE"))
}
