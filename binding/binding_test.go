package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type site struct {
	Name string
	Link string
}

type details struct {
	Email     string
	Telephone string
	WebSites  []site
	secret    string
}

func TestCompile(t *testing.T) {
	tpl, err := Compile("**Email:** ${ Email } / ${WebSites[0].Name}")
	if err != nil {
		t.Fatalf("编译失败: %v", err)
	}
	if diff := cmp.Diff([]string{"Email", "WebSites[0].Name"}, tpl.Fields()); diff != "" {
		t.Fatalf("字段列表不符 (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"${Email", "x ${ } y"} {
		if _, err := Compile(bad); err == nil {
			t.Fatalf("%q 应编译失败", bad)
		}
	}
}

func TestExecuteStruct(t *testing.T) {
	d := &details{Email: "fry@planet.express", WebSites: []site{{Name: "GitHub", Link: "https://github.com"}}}

	got, ok := MustCompile("**Email:** ${Email}").Execute(d)
	if !ok || got != "**Email:** fry@planet.express" {
		t.Fatalf("Email 行应成功: got=%q ok=%v", got, ok)
	}
	if _, ok := MustCompile("**Tel:** ${Telephone}").Execute(d); ok {
		t.Fatalf("空字段应返回 ok=false")
	}
	if _, ok := MustCompile("**Address:** ${Address}").Execute(d); ok {
		t.Fatalf("缺失字段应返回 ok=false")
	}
	if _, ok := MustCompile("${secret}").Execute(d); ok {
		t.Fatalf("未导出字段不可访问")
	}
	if got, ok := MustCompile("[${WebSites[0].Name}](${WebSites[0].Link})").Execute(d); !ok || got != "[GitHub](https://github.com)" {
		t.Fatalf("下标访问错误: got=%q ok=%v", got, ok)
	}
	if got, ok := MustCompile("no placeholders").Execute(d); !ok || got != "no placeholders" {
		t.Fatalf("无占位符应原样返回: got=%q ok=%v", got, ok)
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{
		"WebSites": []any{
			map[string]any{"Name": "GitHub"},
			map[string]string{"Name": "Blog"},
		},
	}
	v, ok := Lookup(data, "WebSites[1].Name")
	if !ok || v != "Blog" {
		t.Fatalf("Lookup 结果错误: v=%v ok=%v", v, ok)
	}
	for _, path := range []string{"WebSites[5].Name", "WebSites[x]", "WebSites[0", "Missing"} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("路径 %q 应失败", path)
		}
	}
	var nilDetails *details
	if _, ok := Lookup(nilDetails, "Email"); ok {
		t.Fatalf("nil 指针应失败")
	}
}
