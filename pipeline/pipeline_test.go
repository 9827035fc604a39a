package pipeline

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/vita/config"
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/resume"
)

const sample = `{
  "PersonalDetails": {"Name": "turanga leela", "CurrentPosition": "Captain", "Email": "leela@planetexpress.com"},
  "PersonalStatement": "Captain of the **Planet Express** ship.",
  "WorkExperience": [
    {"Name": "Captain", "Organisation": "Planet Express", "Dates": "3000 - present",
     "Description": "Flying the ship<*>Kicking aliens<*>Keeping the crew alive"}
  ],
  "Skills": [{"Name": "Combat", "List": ["martial arts", "laser guns"]}]
}`

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func loadSample(t *testing.T) *resume.Record {
	t.Helper()
	rec, err := resume.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("解析示例失败: %v", err)
	}
	return rec
}

func TestRunCanvas(t *testing.T) {
	doc, err := Run(loadSample(t), Options{Backend: config.BackendCanvas, Logger: quiet()})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if doc.Name != "Turanga Leela.pdf" {
		t.Fatalf("文件名错误: %q", doc.Name)
	}
	if !bytes.HasPrefix(doc.PDF, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
	if doc.Result == nil || len(doc.Result.Pages) != 1 {
		t.Fatalf("canvas 后端应给出单页布局结果")
	}
	if doc.Result.Meta.Title != "Turanga Leela" || doc.Result.Meta.Creator != creator {
		t.Fatalf("元信息错误: %+v", doc.Result.Meta)
	}
	want := []string{"PersonalDetails", "PersonalStatement", "WorkExperience", "Skills"}
	if diff := cmp.Diff(want, doc.Outcome.Rendered); diff != "" {
		t.Fatalf("已渲染分节不符 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Education"}, doc.Outcome.Skipped); diff != "" {
		t.Fatalf("跳过分节不符 (-want +got):\n%s", diff)
	}
}

func TestRunFPDF(t *testing.T) {
	doc, err := Run(loadSample(t), Options{Backend: config.BackendFPDF, Logger: quiet()})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(doc.PDF, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
	if doc.Result != nil {
		t.Fatalf("fpdf 后端没有中间布局结果")
	}
}

func TestRunEmptyRecord(t *testing.T) {
	doc, err := Run(&resume.Record{}, Options{Logger: quiet()})
	if err != nil {
		t.Fatalf("空记录也应输出文档: %v", err)
	}
	if doc.Name != "CV.pdf" || len(doc.Outcome.Skipped) != 5 {
		t.Fatalf("空记录应全部跳过并使用默认文件名: %q %v", doc.Name, doc.Outcome.Skipped)
	}
}

func TestRunUnknownBackend(t *testing.T) {
	if _, err := Run(loadSample(t), Options{Backend: "html", Logger: quiet()}); err == nil {
		t.Fatalf("未知后端应报错")
	}
}

func TestRunUnknownFontIsFatal(t *testing.T) {
	_, err := Run(loadSample(t), Options{Font: "Comic", Logger: quiet()})
	if err == nil {
		t.Fatalf("无法注册的字体应导致失败")
	}
}

func TestRunCustomPage(t *testing.T) {
	page := layout.Options{Width: 148, Height: 210, Margin: layout.Margin{Top: 8, Right: 8, Bottom: 15, Left: 8}}
	doc, err := Run(loadSample(t), Options{Page: page, Logger: quiet()})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if got := doc.Result.Pages[0].Width; got != 148 {
		t.Fatalf("页面宽度应为 148，实际 %g", got)
	}
}

func TestRunInvalidRecordPassesThrough(t *testing.T) {
	rec := &resume.Record{Skills: []resume.SkillGroup{{Name: " ", List: []string{"x"}}}}
	_, err := Run(rec, Options{Logger: quiet()})
	if !errors.Is(err, resume.ErrInvalidRecord) {
		t.Fatalf("期望 ErrInvalidRecord，实际 %v", err)
	}
}
