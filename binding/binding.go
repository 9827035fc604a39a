// Package binding 实现 ${Field} 占位符模板。占位符路径按 a.b[0].c 形式在 map、结构体与切片中逐级取值。
package binding

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Template 是编译后的占位符模板，可重复执行。
type Template struct {
	src   string
	parts []part
}

// part 要么是字面文本，要么是一个字段路径。
type part struct {
	literal string
	path    string
}

// Compile 解析 text 中的 ${path}。未闭合的 "${" 或空路径返回错误。
func Compile(text string) (*Template, error) {
	t := &Template{src: text}
	rest := text
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end == -1 {
			return nil, fmt.Errorf("binding: 占位符未闭合: %q", text)
		}
		path := strings.TrimSpace(rest[start+2 : start+end])
		if path == "" {
			return nil, fmt.Errorf("binding: 占位符为空: %q", text)
		}
		if start > 0 {
			t.parts = append(t.parts, part{literal: rest[:start]})
		}
		t.parts = append(t.parts, part{path: path})
		rest = rest[start+end+1:]
	}
	if rest != "" {
		t.parts = append(t.parts, part{literal: rest})
	}
	return t, nil
}

// MustCompile 同 Compile，出错时 panic，用于包级常量模板。
func MustCompile(text string) *Template {
	t, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) String() string { return t.src }

// Fields 按出现顺序返回模板引用的字段路径。
func (t *Template) Fields() []string {
	var out []string
	for _, p := range t.parts {
		if p.path != "" {
			out = append(out, p.path)
		}
	}
	return out
}

// Execute 填充模板。任一字段缺失或为空白时 ok 为 false，调用方据此整行丢弃。
func (t *Template) Execute(data any) (string, bool) {
	var b strings.Builder
	ok := true
	for _, p := range t.parts {
		if p.path == "" {
			b.WriteString(p.literal)
			continue
		}
		val, found := Lookup(data, p.path)
		s := ""
		if found {
			s = fmt.Sprint(val)
		}
		if strings.TrimSpace(s) == "" {
			ok = false
		}
		b.WriteString(s)
	}
	return b.String(), ok
}

// Lookup 按路径取值。map 以键、结构体以导出字段名、切片与数组以 [i] 下标访问；指针与接口会被解引用。
func Lookup(data any, path string) (any, bool) {
	v := reflect.ValueOf(data)
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			if v, ok = field(v, name); !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			if v, ok = index(v, idx); !ok {
				return nil, false
			}
		}
	}
	v = indirect(v)
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	return v.Interface(), true
}

func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, true
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func field(v reflect.Value, name string) (reflect.Value, bool) {
	v = indirect(v)
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		val := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		return val, val.IsValid()
	case reflect.Struct:
		sf, ok := v.Type().FieldByName(name)
		if !ok || !sf.IsExported() {
			return reflect.Value{}, false
		}
		return v.FieldByIndex(sf.Index), true
	default:
		return reflect.Value{}, false
	}
}

func index(v reflect.Value, idx int) (reflect.Value, bool) {
	v = indirect(v)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if idx < 0 || idx >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(idx), true
	default:
		return reflect.Value{}, false
	}
}
